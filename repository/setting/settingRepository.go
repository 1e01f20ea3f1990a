package settingrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type Repo interface {
	FindBySection(ctx context.Context, section string) (*model.Setting, error)
	All(ctx context.Context) ([]model.Setting, error)
	UpdateProperties(ctx context.Context, section string, properties map[string]any) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) FindBySection(ctx context.Context, section string) (*model.Setting, error) {
	const q = `
SELECT id, section, properties
FROM settings
WHERE section = $1`
	var (
		s   model.Setting
		raw []byte
	)
	if err := r.db.QueryRowContext(ctx, q, section).Scan(&s.ID, &s.Section, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &s.Properties); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) All(ctx context.Context) ([]model.Setting, error) {
	const q = `
SELECT id, section, properties
FROM settings
ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Setting
	for rows.Next() {
		var (
			s   model.Setting
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.Section, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &s.Properties); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) UpdateProperties(ctx context.Context, section string, properties map[string]any) error {
	raw, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	const q = `
UPDATE settings
SET properties = $2, updated_at = NOW()
WHERE section = $1`
	res, err := r.db.ExecContext(ctx, q, section, raw)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
