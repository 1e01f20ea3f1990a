package bookrepo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

// Filters narrows catalog and export queries. Zero values mean "no filter".
type Filters struct {
	Category    string
	Author      string
	Title       string
	Publication int
}

type Repo interface {
	FindByCode(ctx context.Context, code string) (*model.Book, error)
	FindByID(ctx context.Context, id int64) (*model.Book, error)
	Insert(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book, status bool) error
	SoftDeleteByCode(ctx context.Context, code string) (int64, error)

	Catalog(ctx context.Context, f Filters, order, sort string, limit, offset int) ([]model.CatalogRow, int64, error)
	AllForExport(ctx context.Context, f Filters) ([]model.CatalogRow, error)

	Authors(ctx context.Context) ([]string, error)
	PublicationYears(ctx context.Context) ([]int, error)
	CategoryTitles(ctx context.Context) ([]string, error)

	// Stock mutations ride the caller's transaction so booking writes and
	// stock changes commit together.
	DecrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error)
	IncrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookCols = `b.id, b.category_id, b.code, b.title, b.author, b.publication, b.edition, b.synopsis, b.stock, b.status, b.created_at`

func scanBook(row *sql.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.CategoryID, &b.Code, &b.Title, &b.Author,
		&b.Publication, &b.Edition, &b.Synopsis, &b.Stock, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) FindByCode(ctx context.Context, code string) (*model.Book, error) {
	const q = `
SELECT ` + bookCols + `
FROM books b
WHERE b.code = $1 AND b.deleted_at IS NULL`
	return scanBook(r.db.QueryRowContext(ctx, q, code))
}

func (r *repo) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT ` + bookCols + `
FROM books b
WHERE b.id = $1 AND b.deleted_at IS NULL`
	return scanBook(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) Insert(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (category_id, code, title, author, publication, edition, synopsis, stock, status)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,true)
RETURNING id, status, created_at`
	return r.db.QueryRowContext(ctx, q,
		b.CategoryID, b.Code, b.Title, b.Author, b.Publication, b.Edition, b.Synopsis, b.Stock,
	).Scan(&b.ID, &b.Status, &b.CreatedAt)
}

func (r *repo) Update(ctx context.Context, b *model.Book, status bool) error {
	const q = `
UPDATE books
SET category_id=$2, code=$3, title=$4, author=$5, publication=$6,
    edition=$7, synopsis=$8, stock=$9, status=$10, updated_at=NOW()
WHERE id=$1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q,
		b.ID, b.CategoryID, b.Code, b.Title, b.Author, b.Publication,
		b.Edition, b.Synopsis, b.Stock, status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	b.Status = status
	return nil
}

func (r *repo) SoftDeleteByCode(ctx context.Context, code string) (int64, error) {
	const q = `
UPDATE books
SET deleted_at = NOW()
WHERE code = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, code)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// filterClause appends WHERE conditions for f starting at placeholder $n.
func filterClause(f Filters, args []any) (string, []any) {
	var sb strings.Builder
	n := len(args)
	if f.Category != "" {
		args = append(args, f.Category)
		n++
		sb.WriteString(` AND c.title = $` + itoa(n))
	}
	if f.Author != "" {
		args = append(args, f.Author)
		n++
		sb.WriteString(` AND b.author = $` + itoa(n))
	}
	if f.Title != "" {
		args = append(args, "%"+f.Title+"%")
		n++
		sb.WriteString(` AND b.title LIKE $` + itoa(n))
	}
	if f.Publication != 0 {
		args = append(args, f.Publication)
		n++
		sb.WriteString(` AND b.publication = $` + itoa(n))
	}
	return sb.String(), args
}

func itoa(n int) string { return strconv.Itoa(n) }

var orderColumns = map[string]string{
	"category": "c.title",
	"title":    "b.title",
	"status":   "b.status",
}

func (r *repo) Catalog(ctx context.Context, f Filters, order, sort string, limit, offset int) ([]model.CatalogRow, int64, error) {
	col, ok := orderColumns[order]
	if !ok {
		col = "b.title"
	}
	dir := "ASC"
	if strings.EqualFold(sort, "desc") {
		dir = "DESC"
	}

	base := `
FROM books b
JOIN categories c ON c.id = b.category_id
WHERE b.deleted_at IS NULL AND b.status = true`
	where, args := filterClause(f, nil)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) `+base+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := `SELECT ` + bookCols + `, c.title ` + base + where +
		` ORDER BY ` + col + ` ` + dir + `, b.id ASC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectRows(rows)
	return out, total, err
}

func (r *repo) AllForExport(ctx context.Context, f Filters) ([]model.CatalogRow, error) {
	base := `
FROM books b
JOIN categories c ON c.id = b.category_id
WHERE b.deleted_at IS NULL`
	where, args := filterClause(f, nil)
	q := `SELECT ` + bookCols + `, c.title ` + base + where + ` ORDER BY c.title, b.code`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRows(rows)
}

func collectRows(rows *sql.Rows) ([]model.CatalogRow, error) {
	var out []model.CatalogRow
	for rows.Next() {
		var cr model.CatalogRow
		if err := rows.Scan(&cr.ID, &cr.CategoryID, &cr.Code, &cr.Title, &cr.Author,
			&cr.Publication, &cr.Edition, &cr.Synopsis, &cr.Stock, &cr.Status,
			&cr.CreatedAt, &cr.CategoryTitle); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

func (r *repo) Authors(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT author
FROM books
WHERE deleted_at IS NULL AND status = true
ORDER BY author`
	return collectStrings(r.db.QueryContext(ctx, q))
}

func (r *repo) PublicationYears(ctx context.Context) ([]int, error) {
	const q = `
SELECT DISTINCT publication
FROM books
WHERE deleted_at IS NULL AND status = true
ORDER BY publication`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

func (r *repo) CategoryTitles(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT c.title
FROM books b
JOIN categories c ON c.id = b.category_id
WHERE b.deleted_at IS NULL AND c.deleted_at IS NULL AND c.status = true
ORDER BY c.title`
	return collectStrings(r.db.QueryContext(ctx, q))
}

func collectStrings(rows *sql.Rows, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repo) DecrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error) {
	// Conditional update: zero rows affected means the book was out of stock.
	const q = `
UPDATE books
SET stock = stock - 1
WHERE id = $1 AND stock > 0 AND deleted_at IS NULL`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) IncrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
UPDATE books
SET stock = stock + 1
WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}
