package repo

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mdesign/internal/model"
	"github.com/xxxsen/mdesign/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
)

var assetColumns = []string{"id", "owner_id", "file_key", "url", "name", "content_type", "size", "ctime", "mtime"}

type AssetRepo struct {
	db *sqlx.DB
}

func NewAssetRepo(db *sqlx.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

func (r *AssetRepo) Create(ctx context.Context, asset *model.Asset) error {
	data := map[string]interface{}{
		"id":           asset.ID,
		"owner_id":     asset.OwnerID,
		"file_key":     asset.FileKey,
		"url":          asset.URL,
		"name":         asset.Name,
		"content_type": asset.ContentType,
		"size":         asset.Size,
		"ctime":        asset.Ctime,
		"mtime":        asset.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("assets", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(r.db, sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *AssetRepo) GetByKey(ctx context.Context, fileKey string) (*model.Asset, error) {
	where := map[string]interface{}{
		"file_key": fileKey,
		"_limit":   []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("assets", where, assetColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db, sqlStr, args)
	var asset model.Asset
	if err := r.db.GetContext(ctx, &asset, sqlStr, args...); err != nil {
		if dbutil.IsNoRows(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}
