package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/vidpass/vidpass/internal/model"
	"github.com/vidpass/vidpass/internal/pkg/dbutil"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
)

type AdminRepo struct {
	db *sql.DB
}

func NewAdminRepo(db *sql.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) Create(ctx context.Context, admin *model.AdminAccount) error {
	data := map[string]interface{}{
		"email":         admin.Email,
		"password_hash": admin.PasswordHash,
		"ctime":         admin.Ctime,
		"mtime":         admin.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("admin", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	where := map[string]interface{}{"email": email}
	sqlStr, args, err := builder.BuildSelect("admin", where, []string{"email", "password_hash", "ctime", "mtime"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var admin model.AdminAccount
	if err := rows.Scan(&admin.Email, &admin.PasswordHash, &admin.Ctime, &admin.Mtime); err != nil {
		return nil, err
	}
	return &admin, nil
}
