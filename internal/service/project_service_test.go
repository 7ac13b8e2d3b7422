package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/repo"
	"github.com/xxxsen/mdesign/internal/testutil"
)

func TestProjectCreateIsImmediatelyListed(t *testing.T) {
	projects := NewProjectService(repo.NewProjectRepo(testutil.OpenTestDB(t)))
	ctx := context.Background()

	created, err := projects.Create(ctx, ProjectCreateInput{
		Name:    "Landing page",
		Data:    json.RawMessage(`{"canvas":{"id":"c1","layers":[]}}`),
		OwnerID: "owner-that-does-not-exist",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	items, err := projects.List(ctx, repo.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, created.ID, items[0].ID)
	require.JSONEq(t, `{"canvas":{"id":"c1","layers":[]}}`, string(items[0].Data))

	got, err := projects.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Landing page", got.Name)
}

func TestProjectCreateDefaultsDataToNull(t *testing.T) {
	projects := NewProjectService(repo.NewProjectRepo(testutil.OpenTestDB(t)))
	created, err := projects.Create(context.Background(), ProjectCreateInput{Name: "empty", OwnerID: "u1"})
	require.NoError(t, err)
	require.Equal(t, "null", string(created.Data))
}

func TestProjectCreateValidation(t *testing.T) {
	projects := NewProjectService(repo.NewProjectRepo(testutil.OpenTestDB(t)))
	tests := []struct {
		name  string
		input ProjectCreateInput
	}{
		{name: "missing name", input: ProjectCreateInput{OwnerID: "u1"}},
		{name: "missing owner", input: ProjectCreateInput{Name: "x"}},
		{name: "invalid json", input: ProjectCreateInput{Name: "x", OwnerID: "u1", Data: json.RawMessage(`{"broken"`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := projects.Create(context.Background(), tt.input)
			require.ErrorIs(t, err, appErr.ErrInvalid)
		})
	}
}

func TestProjectGetMissing(t *testing.T) {
	projects := NewProjectService(repo.NewProjectRepo(testutil.OpenTestDB(t)))
	_, err := projects.Get(context.Background(), "nope")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = projects.Get(context.Background(), "")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestProjectGetServedFromCache(t *testing.T) {
	conn := testutil.OpenTestDB(t)
	projects := NewProjectService(repo.NewProjectRepo(conn), WithProjectCache(8, time.Minute))
	ctx := context.Background()

	created, err := projects.Create(ctx, ProjectCreateInput{Name: "cached", Data: json.RawMessage(`[1]`), OwnerID: "u1"})
	require.NoError(t, err)

	_, err = conn.Exec("DELETE FROM projects")
	require.NoError(t, err)

	got, err := projects.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Name)

	// callers get copies, never the cached value itself
	got.Data[0] = '{'
	again, err := projects.Get(ctx, created.ID)
	require.NoError(t, err)
	require.JSONEq(t, `[1]`, string(again.Data))

	_, err = projects.Get(ctx, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
