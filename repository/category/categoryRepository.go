package categoryrepo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

type Repo interface {
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	ExistsActive(ctx context.Context, id int64) (bool, error)
	Catalog(ctx context.Context, order, sort string, limit, offset int) ([]model.Category, int64, error)
	Insert(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category, status bool) error

	// Destroy soft-deletes the category and cascades to its books in one
	// transaction. Returns the number of books cascaded.
	Destroy(ctx context.Context, id int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	const q = `
SELECT id, title, status, created_at
FROM categories
WHERE id = $1 AND deleted_at IS NULL`
	var c model.Category
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Title, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) ExistsActive(ctx context.Context, id int64) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM categories
  WHERE id = $1 AND status = true AND deleted_at IS NULL
)`
	var ok bool
	err := r.db.QueryRowContext(ctx, q, id).Scan(&ok)
	return ok, err
}

var orderColumns = map[string]string{
	"title":  "title",
	"status": "status",
}

func (r *repo) Catalog(ctx context.Context, order, sort string, limit, offset int) ([]model.Category, int64, error) {
	col, ok := orderColumns[order]
	if !ok {
		col = "title"
	}
	dir := "ASC"
	if strings.EqualFold(sort, "desc") {
		dir = "DESC"
	}

	var total int64
	const countQ = `SELECT COUNT(*) FROM categories WHERE status = true AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
SELECT id, title, status, created_at
FROM categories
WHERE status = true AND deleted_at IS NULL
ORDER BY ` + col + ` ` + dir + `, id ASC
LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Status, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repo) Insert(ctx context.Context, c *model.Category) error {
	const q = `
INSERT INTO categories (title, status)
VALUES ($1, true)
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q, c.Title).Scan(&c.ID, &c.Status, &c.CreatedAt)
}

func (r *repo) Update(ctx context.Context, c *model.Category, status bool) error {
	const q = `
UPDATE categories
SET title = $2, status = $3, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, c.ID, c.Title, status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	c.Status = status
	return nil
}

func (r *repo) Destroy(ctx context.Context, id int64) (books int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const delCat = `
UPDATE categories SET deleted_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`
	res, err := tx.ExecContext(ctx, delCat, id)
	if err != nil {
		return 0, err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		err = sql.ErrNoRows
		return 0, err
	}

	const delBooks = `
UPDATE books SET deleted_at = NOW()
WHERE category_id = $1 AND deleted_at IS NULL`
	res, err = tx.ExecContext(ctx, delBooks, id)
	if err != nil {
		return 0, err
	}
	books, _ = res.RowsAffected()

	err = tx.Commit()
	return books, err
}
