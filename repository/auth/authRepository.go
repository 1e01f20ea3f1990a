package authrepo

import (
	"context"
	"database/sql"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type Repo interface {
	ByEmail(ctx context.Context, email string) (*model.User, error)
	RevokeToken(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, name, email, password_hash, created_at
FROM users
WHERE lower(email) = lower($1)`
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, q, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) RevokeToken(ctx context.Context, jti string) error {
	const q = `
INSERT INTO revoked_tokens (jti)
VALUES ($1)
ON CONFLICT (jti) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, jti)
	return err
}

func (r *repo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, jti).Scan(&ok)
	return ok, err
}
