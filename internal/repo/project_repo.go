package repo

import (
	"context"
	"encoding/json"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mdesign/internal/model"
	"github.com/xxxsen/mdesign/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
)

var projectColumns = []string{"id", "name", "data", "owner_id", "ctime", "mtime"}

// projectRow scans data as text so sqlite TEXT and postgres JSONB both work.
type projectRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Data    string `db:"data"`
	OwnerID string `db:"owner_id"`
	Ctime   int64  `db:"ctime"`
	Mtime   int64  `db:"mtime"`
}

func (r projectRow) toModel() model.Project {
	return model.Project{
		ID:      r.ID,
		Name:    r.Name,
		Data:    json.RawMessage(r.Data),
		OwnerID: r.OwnerID,
		Ctime:   r.Ctime,
		Mtime:   r.Mtime,
	}
}

type ProjectFilter struct {
	OwnerID string
}

type ProjectRepo struct {
	db *sqlx.DB
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) error {
	data := map[string]interface{}{
		"id":       project.ID,
		"name":     project.Name,
		"data":     string(project.Data),
		"owner_id": project.OwnerID,
		"ctime":    project.Ctime,
		"mtime":    project.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("projects", []map[string]interface{}{data})
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

func (r *ProjectRepo) GetByID(ctx context.Context, projectID string) (*model.Project, error) {
	where := map[string]interface{}{
		"id":     projectID,
		"_limit": []uint{0, 1},
	}
	sqlStr, args, err := builder.BuildSelect("projects", where, projectColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db, sqlStr, args)
	var row projectRow
	if err := r.db.GetContext(ctx, &row, sqlStr, args...); err != nil {
		if dbutil.IsNoRows(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	project := row.toModel()
	return &project, nil
}

func (r *ProjectRepo) List(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	where := map[string]interface{}{
		"_orderby": "ctime asc, id asc",
	}
	if filter.OwnerID != "" {
		where["owner_id"] = filter.OwnerID
	}
	sqlStr, args, err := builder.BuildSelect("projects", where, projectColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db, sqlStr, args)
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, err
	}
	items := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}
