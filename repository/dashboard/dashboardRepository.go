package dashboardrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

// CategoryCount pairs a category title with its active book count.
type CategoryCount struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

// ReservedBook is one entry of the top reserved list.
type ReservedBook struct {
	Title        string `json:"title"`
	Reservations int64  `json:"reservations"`
}

// MonthCount is the bookings total for one calendar month (1..12).
type MonthCount struct {
	Month int
	Total int64
}

type Repo interface {
	CountActiveBooks(ctx context.Context) (int64, error)
	CountActiveCategories(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	CountBookingsByStatus(ctx context.Context, status model.BookingStatus) (int64, error)
	BooksPerCategory(ctx context.Context) ([]CategoryCount, error)
	TopReservedBooks(ctx context.Context, limit int) ([]ReservedBook, error)
	ReservationsPerMonth(ctx context.Context, year int) ([]MonthCount, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) count(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

func (r *repo) CountActiveBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM books WHERE status = true AND deleted_at IS NULL`)
}

func (r *repo) CountActiveCategories(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM categories WHERE status = true AND deleted_at IS NULL`)
}

func (r *repo) CountBookings(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings WHERE deleted_at IS NULL`)
}

func (r *repo) CountBookingsByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings WHERE status = $1 AND deleted_at IS NULL`, status)
}

func (r *repo) BooksPerCategory(ctx context.Context) ([]CategoryCount, error) {
	const q = `
SELECT c.title,
       COUNT(b.id) FILTER (WHERE b.deleted_at IS NULL AND b.status = true) AS books
FROM categories c
LEFT JOIN books b ON b.category_id = c.id
WHERE c.status = true AND c.deleted_at IS NULL
GROUP BY c.id
ORDER BY c.title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Title, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *repo) TopReservedBooks(ctx context.Context, limit int) ([]ReservedBook, error) {
	// Ties break by book id so the ordering is stable across calls.
	const q = `
SELECT b.title, COUNT(bk.id) AS reservations
FROM books b
LEFT JOIN bookings bk ON bk.book_id = b.id
WHERE b.deleted_at IS NULL
GROUP BY b.id
ORDER BY reservations DESC, b.id ASC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReservedBook
	for rows.Next() {
		var rb ReservedBook
		if err := rows.Scan(&rb.Title, &rb.Reservations); err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}

func (r *repo) ReservationsPerMonth(ctx context.Context, year int) ([]MonthCount, error) {
	const q = `
SELECT EXTRACT(MONTH FROM booking_date)::int AS month, COUNT(*) AS total
FROM bookings
WHERE booking_date >= $1 AND booking_date < $2 AND deleted_at IS NULL
GROUP BY month
ORDER BY month`
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Total); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}
