package repo_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mdesign/internal/model"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/repo"
	"github.com/xxxsen/mdesign/internal/testutil"
)

func TestProjectRepoCreateListGet(t *testing.T) {
	projects := repo.NewProjectRepo(testutil.OpenTestDB(t))
	ctx := context.Background()

	items, err := projects.List(ctx, repo.ProjectFilter{})
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	first := &model.Project{ID: "p1", Name: "Poster", Data: json.RawMessage(`{"canvas":{"width":800}}`), OwnerID: "u1", Ctime: 10, Mtime: 10}
	second := &model.Project{ID: "p2", Name: "Logo", Data: json.RawMessage(`[]`), OwnerID: "u2", Ctime: 20, Mtime: 20}
	require.NoError(t, projects.Create(ctx, first))
	require.NoError(t, projects.Create(ctx, second))

	items, err = projects.List(ctx, repo.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "p1", items[0].ID)
	require.Equal(t, "p2", items[1].ID)
	require.JSONEq(t, `{"canvas":{"width":800}}`, string(items[0].Data))

	items, err = projects.List(ctx, repo.ProjectFilter{OwnerID: "u2"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Logo", items[0].Name)

	got, err := projects.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "u1", got.OwnerID)

	_, err = projects.GetByID(ctx, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestProjectRepoDoesNotRequireExistingOwner(t *testing.T) {
	projects := repo.NewProjectRepo(testutil.OpenTestDB(t))
	err := projects.Create(context.Background(), &model.Project{ID: "p1", Name: "orphan", Data: json.RawMessage(`null`), OwnerID: "nobody"})
	require.NoError(t, err)
}
