package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SuperarseTics/library-superarse-backend/model"
	bookingrepo "github.com/SuperarseTics/library-superarse-backend/repository/booking"
	"github.com/SuperarseTics/library-superarse-backend/util/metrics"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrNoStock         ErrCode = "NO_STOCK"
	ErrLoanLimit       ErrCode = "LOAN_LIMIT"
	ErrBookingNotFound ErrCode = "BOOKING_NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Page wraps a record listing with pagination totals.
type Page struct {
	Items    []model.BookingDetail `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	Size     int                   `json:"size"`
	LastPage int64                 `json:"last_page"`
}

type BookRepo interface {
	FindByCode(ctx context.Context, code string) (*model.Book, error)
	DecrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) (int64, error)
	IncrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) error
}

type Repo interface {
	FindDetailByUUID(ctx context.Context, uuid string) (*model.BookingDetail, error)
	Record(ctx context.Context, userID int64, f bookingrepo.Filters, order, sort string, limit, offset int) ([]model.BookingDetail, int64, error)
	InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	CountActiveByUserTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
	MarkDelivered(ctx context.Context, uuid string, at time.Time) (*model.Booking, error)
	MarkReturnedTx(ctx context.Context, tx *sql.Tx, uuid string, at time.Time) (*model.Booking, error)
}

// Rules is the lending-policy provider, backed by the settings store.
type Rules interface {
	System(ctx context.Context) (model.SystemRules, error)
}

type Service interface {
	// Reserve: hold one copy of the book for the user (status Reservado).
	Reserve(ctx context.Context, userID int64, bookCode string, bookingDate time.Time) (*model.Booking, error)

	// Deliver: hand the reserved copy to the user (status Entregado).
	Deliver(ctx context.Context, bookingUUID string) (*model.Booking, error)

	// GiveBack: take the copy back and restore stock (status Devuelto).
	GiveBack(ctx context.Context, bookingUUID string) (*model.Booking, error)

	// Show: booking joined with user/book/category display fields.
	Show(ctx context.Context, bookingUUID string) (*model.BookingDetail, error)

	// Record: paginated history of the caller's bookings.
	Record(ctx context.Context, userID int64, req model.RecordReq) (*Page, error)
}

// ----- Service implementation -----

type service struct {
	db    *sql.DB
	r     Repo
	br    BookRepo
	rules Rules
}

func New(db *sql.DB, r Repo, br BookRepo, rules Rules) Service {
	return &service{db: db, r: r, br: br, rules: rules}
}

// Reserve holds a copy inside one transaction: the loan-limit check, the
// conditional stock decrement and the booking insert commit together.
func (s *service) Reserve(ctx context.Context, userID int64, bookCode string, bookingDate time.Time) (*model.Booking, error) {
	book, err := s.br.FindByCode(ctx, bookCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if book.Stock < 1 {
		return nil, makeErr(ErrNoStock)
	}

	rules, err := s.rules.System(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if rules.MaxLoanBooks > 0 {
		var active int64
		active, err = s.r.CountActiveByUserTx(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		if active >= int64(rules.MaxLoanBooks) {
			err = makeErr(ErrLoanLimit)
			return nil, err
		}
	}

	var aff int64
	aff, err = s.br.DecrementStockTx(ctx, tx, book.ID)
	if err != nil {
		return nil, err
	}
	if aff == 0 {
		err = makeErr(ErrNoStock)
		return nil, err
	}

	booking := &model.Booking{
		UUID:             uuid.NewString(),
		UserID:           userID,
		BookID:           book.ID,
		BookingDate:      bookingDate,
		LastGivebackDate: bookingDate.AddDate(0, 0, rules.MaxLoanDays),
		Status:           model.BookingReserved,
	}
	if err = s.r.InsertTx(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	metrics.ReservationsTotal.Inc()
	return booking, nil
}

func (s *service) Deliver(ctx context.Context, bookingUUID string) (*model.Booking, error) {
	// No stock change: the copy was decremented at reserve time.
	b, err := s.r.MarkDelivered(ctx, bookingUUID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) GiveBack(ctx context.Context, bookingUUID string) (b *model.Booking, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err = s.r.MarkReturnedTx(ctx, tx, bookingUUID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	if err = s.br.IncrementStockTx(ctx, tx, b.BookID); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	metrics.GivebacksTotal.Inc()
	return b, nil
}

func (s *service) Show(ctx context.Context, bookingUUID string) (*model.BookingDetail, error) {
	d, err := s.r.FindDetailByUUID(ctx, bookingUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (s *service) Record(ctx context.Context, userID int64, req model.RecordReq) (*Page, error) {
	f := bookingrepo.Filters{Category: req.FCategory, Code: req.FCode}
	offset := (req.Page - 1) * req.Size
	items, total, err := s.r.Record(ctx, userID, f, req.Order, req.Sort, req.Size, offset)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		Size:     req.Size,
		LastPage: lastPage(total, req.Size),
	}, nil
}

func lastPage(total int64, size int) int64 {
	if size <= 0 {
		return 1
	}
	lp := (total + int64(size) - 1) / int64(size)
	if lp < 1 {
		lp = 1
	}
	return lp
}
