package dashboardsvc

import (
	"context"
	"time"

	"github.com/SuperarseTics/library-superarse-backend/model"
	dashboardrepo "github.com/SuperarseTics/library-superarse-backend/repository/dashboard"
)

// MonthTotal is one entry of the fixed January..December series.
type MonthTotal struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// Report is the dashboard snapshot. Recomputed fully on each call.
type Report struct {
	Books                int64                       `json:"books"`
	Categories           int64                       `json:"categories"`
	Bookings             int64                       `json:"bookings"`
	NotGiveBack          int64                       `json:"notGiveBack"`
	BooksPerCategory     []dashboardrepo.CategoryCount `json:"booksPerCategory"`
	TopReservedBooks     []dashboardrepo.ReservedBook  `json:"topReservedBooks"`
	ReservationsPerMonth []MonthTotal                `json:"reservationsPerMonth"`
}

type Repo interface {
	CountActiveBooks(ctx context.Context) (int64, error)
	CountActiveCategories(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	CountBookingsByStatus(ctx context.Context, status model.BookingStatus) (int64, error)
	BooksPerCategory(ctx context.Context) ([]dashboardrepo.CategoryCount, error)
	TopReservedBooks(ctx context.Context, limit int) ([]dashboardrepo.ReservedBook, error)
	ReservationsPerMonth(ctx context.Context, year int) ([]dashboardrepo.MonthCount, error)
}

type Service interface {
	Generate(ctx context.Context) (*Report, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (s *service) Generate(ctx context.Context) (*Report, error) {
	books, err := s.r.CountActiveBooks(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.r.CountActiveCategories(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.r.CountBookings(ctx)
	if err != nil {
		return nil, err
	}
	notGiveBack, err := s.r.CountBookingsByStatus(ctx, model.BookingNotReturned)
	if err != nil {
		return nil, err
	}
	perCategory, err := s.r.BooksPerCategory(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.r.TopReservedBooks(ctx, 5)
	if err != nil {
		return nil, err
	}

	perMonth, err := s.r.ReservationsPerMonth(ctx, time.Now().Year())
	if err != nil {
		return nil, err
	}
	// All twelve months are present in order, defaulting to zero.
	months := make([]MonthTotal, 12)
	for i, name := range monthNames {
		months[i] = MonthTotal{Month: name}
	}
	for _, mc := range perMonth {
		if mc.Month >= 1 && mc.Month <= 12 {
			months[mc.Month-1].Total = mc.Total
		}
	}

	return &Report{
		Books:                books,
		Categories:           categories,
		Bookings:             bookings,
		NotGiveBack:          notGiveBack,
		BooksPerCategory:     perCategory,
		TopReservedBooks:     top,
		ReservationsPerMonth: months,
	}, nil
}
