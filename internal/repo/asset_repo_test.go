package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mdesign/internal/model"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/repo"
	"github.com/xxxsen/mdesign/internal/testutil"
)

func TestAssetRepoCreateAndGetByKey(t *testing.T) {
	assets := repo.NewAssetRepo(testutil.OpenTestDB(t))
	ctx := context.Background()
	asset := &model.Asset{
		ID:          "a1",
		OwnerID:     "u1",
		FileKey:     "abc.png",
		URL:         "http://localhost/api/files/abc.png",
		Name:        "logo.png",
		ContentType: "image/png",
		Size:        42,
		Ctime:       1,
		Mtime:       1,
	}
	require.NoError(t, assets.Create(ctx, asset))

	got, err := assets.GetByKey(ctx, "abc.png")
	require.NoError(t, err)
	require.Equal(t, *asset, *got)

	require.ErrorIs(t, assets.Create(ctx, asset), appErr.ErrConflict)

	_, err = assets.GetByKey(ctx, "nope.png")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
