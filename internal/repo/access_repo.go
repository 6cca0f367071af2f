package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/vidpass/vidpass/internal/model"
	"github.com/vidpass/vidpass/internal/pkg/dbutil"
	appErr "github.com/vidpass/vidpass/internal/pkg/errors"
)

type AccessRepo struct {
	db *sql.DB
}

func NewAccessRepo(db *sql.DB) *AccessRepo {
	return &AccessRepo{db: db}
}

// Upsert inserts the grant or overwrites the existing code for the email in
// a single statement. Concurrent upserts for one email resolve
// last-write-wins on the otp column; gendry has no upsert primitive so the
// ON CONFLICT form is written out.
func (r *AccessRepo) Upsert(ctx context.Context, grant *model.AccessGrant) error {
	const sqlStr = `INSERT INTO user_access (email, otp, ctime, mtime) VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET otp = EXCLUDED.otp, mtime = EXCLUDED.mtime`
	_, err := r.db.ExecContext(ctx, sqlStr, grant.Email, grant.OTP, grant.Ctime, grant.Mtime)
	return err
}

// GetByEmailAndOTP is an exact-match lookup of the pair. Any miss is
// ErrNotFound regardless of whether the email exists.
func (r *AccessRepo) GetByEmailAndOTP(ctx context.Context, email, otp string) (*model.AccessGrant, error) {
	where := map[string]interface{}{"email": email, "otp": otp}
	sqlStr, args, err := builder.BuildSelect("user_access", where, []string{"email", "otp", "ctime", "mtime"})
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
	var grant model.AccessGrant
	if err := rows.Scan(&grant.Email, &grant.OTP, &grant.Ctime, &grant.Mtime); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *AccessRepo) GetByEmail(ctx context.Context, email string) (*model.AccessGrant, error) {
	where := map[string]interface{}{"email": email}
	sqlStr, args, err := builder.BuildSelect("user_access", where, []string{"email", "otp", "ctime", "mtime"})
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
	var grant model.AccessGrant
	if err := rows.Scan(&grant.Email, &grant.OTP, &grant.Ctime, &grant.Mtime); err != nil {
		return nil, err
	}
	return &grant, nil
}
