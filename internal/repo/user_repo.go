package repo

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mdesign/internal/model"
	"github.com/xxxsen/mdesign/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
)

var userColumns = []string{"id", "username", "email", "password_hash", "ctime", "mtime"}

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	data := map[string]interface{}{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"ctime":         user.Ctime,
		"mtime":         user.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("users", []map[string]interface{}{data})
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

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, map[string]interface{}{"email": email})
}

func (r *UserRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.User, error) {
	where["_limit"] = []uint{0, 1}
	sqlStr, args, err := builder.BuildSelect("users", where, userColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db, sqlStr, args)
	var user model.User
	if err := r.db.GetContext(ctx, &user, sqlStr, args...); err != nil {
		if dbutil.IsNoRows(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
