package bookingrepo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/SuperarseTics/library-superarse-backend/model"
)

// Filters narrows the caller's booking history listing.
type Filters struct {
	Category string
	Code     string
}

type Repo interface {
	FindByUUID(ctx context.Context, uuid string) (*model.Booking, error)
	FindDetailByUUID(ctx context.Context, uuid string) (*model.BookingDetail, error)
	Record(ctx context.Context, userID int64, f Filters, order, sort string, limit, offset int) ([]model.BookingDetail, int64, error)

	// InsertTx and the stock mutations in bookrepo share one transaction.
	InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	CountActiveByUserTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	MarkDelivered(ctx context.Context, uuid string, at time.Time) (*model.Booking, error)
	MarkReturnedTx(ctx context.Context, tx *sql.Tx, uuid string, at time.Time) (*model.Booking, error)

	// Sweep queries.
	ListAbandoned(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	HardDeleteTx(ctx context.Context, tx *sql.Tx, id int64) error
	FlagOverdue(ctx context.Context, now time.Time) (int64, error)
	ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookingCols = `bk.id, bk.uuid, bk.user_id, bk.book_id, bk.booking_date, bk.delivery_date, bk.giveback_date, bk.last_giveback_date, bk.status, bk.created_at`

func scanBooking(sc interface{ Scan(...any) error }, b *model.Booking) error {
	return sc.Scan(&b.ID, &b.UUID, &b.UserID, &b.BookID, &b.BookingDate,
		&b.DeliveryDate, &b.GivebackDate, &b.LastGivebackDate, &b.Status, &b.CreatedAt)
}

func (r *repo) FindByUUID(ctx context.Context, uuid string) (*model.Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings bk
WHERE bk.uuid = $1 AND bk.deleted_at IS NULL`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, uuid), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

const detailCols = bookingCols + `, u.name, u.email, b.code, b.title, c.title`

const detailJoin = `
FROM bookings bk
JOIN users u ON u.id = bk.user_id
JOIN books b ON b.id = bk.book_id
JOIN categories c ON c.id = b.category_id`

func scanDetail(sc interface{ Scan(...any) error }, d *model.BookingDetail) error {
	return sc.Scan(&d.ID, &d.UUID, &d.UserID, &d.BookID, &d.BookingDate,
		&d.DeliveryDate, &d.GivebackDate, &d.LastGivebackDate, &d.Status, &d.CreatedAt,
		&d.UserName, &d.UserEmail, &d.BookCode, &d.BookTitle, &d.CategoryTitle)
}

func (r *repo) FindDetailByUUID(ctx context.Context, uuid string) (*model.BookingDetail, error) {
	q := `SELECT ` + detailCols + detailJoin + `
WHERE bk.uuid = $1 AND bk.deleted_at IS NULL`
	var d model.BookingDetail
	if err := scanDetail(r.db.QueryRowContext(ctx, q, uuid), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

var orderColumns = map[string]string{
	"booking_date": "bk.booking_date",
	"status":       "bk.status",
}

func (r *repo) Record(ctx context.Context, userID int64, f Filters, order, sort string, limit, offset int) ([]model.BookingDetail, int64, error) {
	col, ok := orderColumns[order]
	if !ok {
		col = "bk.booking_date"
	}
	dir := "ASC"
	if strings.EqualFold(sort, "desc") {
		dir = "DESC"
	}

	where := ` WHERE bk.deleted_at IS NULL AND bk.user_id = $1`
	args := []any{userID}
	if f.Category != "" {
		args = append(args, f.Category)
		where += ` AND c.title = $` + strconv.Itoa(len(args))
	}
	if f.Code != "" {
		args = append(args, f.Code)
		where += ` AND b.code = $` + strconv.Itoa(len(args))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+detailJoin+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := `SELECT ` + detailCols + detailJoin + where +
		` ORDER BY ` + col + ` ` + dir + `, bk.id ASC` +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.BookingDetail
	for rows.Next() {
		var d model.BookingDetail
		if err := scanDetail(rows, &d); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `
INSERT INTO bookings (uuid, user_id, book_id, booking_date, last_giveback_date, status)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		b.UUID, b.UserID, b.BookID, b.BookingDate, b.LastGivebackDate, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *repo) CountActiveByUserTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	// Active means not yet returned; deleted rows are abandoned reservations.
	const q = `
SELECT COUNT(*)
FROM bookings
WHERE user_id = $1 AND status <> $2 AND deleted_at IS NULL`
	var n int64
	err := tx.QueryRowContext(ctx, q, userID, model.BookingReturned).Scan(&n)
	return n, err
}

func (r *repo) MarkDelivered(ctx context.Context, uuid string, at time.Time) (*model.Booking, error) {
	const q = `
UPDATE bookings bk
SET status = $2, delivery_date = $3, updated_at = NOW()
WHERE bk.uuid = $1 AND bk.deleted_at IS NULL
RETURNING ` + bookingCols
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, uuid, model.BookingDelivered, at), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) MarkReturnedTx(ctx context.Context, tx *sql.Tx, uuid string, at time.Time) (*model.Booking, error) {
	const q = `
UPDATE bookings bk
SET status = $2, giveback_date = $3, updated_at = NOW()
WHERE bk.uuid = $1 AND bk.deleted_at IS NULL
RETURNING ` + bookingCols
	var b model.Booking
	if err := scanBooking(tx.QueryRowContext(ctx, q, uuid, model.BookingReturned, at), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) ListAbandoned(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	// Only reservations never delivered: a delivered or returned booking is
	// history, not an abandoned hold.
	const q = `
SELECT ` + bookingCols + `
FROM bookings bk
WHERE bk.booking_date < $1
  AND bk.delivery_date IS NULL
  AND bk.status = $2
  AND bk.deleted_at IS NULL`
	rows, err := r.db.QueryContext(ctx, q, cutoff, model.BookingReserved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) HardDeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `DELETE FROM bookings WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, id)
	return err
}

func (r *repo) FlagOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `
UPDATE bookings
SET status = $2, updated_at = NOW()
WHERE last_giveback_date < $1
  AND giveback_date IS NULL
  AND status NOT IN ($3, $2)
  AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, now, model.BookingNotReturned, model.BookingReturned)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error) {
	q := `SELECT ` + detailCols + detailJoin + `
WHERE bk.status = $1 AND bk.deleted_at IS NULL
ORDER BY bk.last_giveback_date`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingDetail
	for rows.Next() {
		var d model.BookingDetail
		if err := scanDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
