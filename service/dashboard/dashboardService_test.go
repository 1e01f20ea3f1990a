package dashboardsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SuperarseTics/library-superarse-backend/model"
	dashboardrepo "github.com/SuperarseTics/library-superarse-backend/repository/dashboard"
)

type repoMock struct {
	perMonth []dashboardrepo.MonthCount
}

func (m *repoMock) CountActiveBooks(ctx context.Context) (int64, error)      { return 10, nil }
func (m *repoMock) CountActiveCategories(ctx context.Context) (int64, error) { return 4, nil }
func (m *repoMock) CountBookings(ctx context.Context) (int64, error)         { return 25, nil }
func (m *repoMock) CountBookingsByStatus(ctx context.Context, status model.BookingStatus) (int64, error) {
	if status == model.BookingNotReturned {
		return 2, nil
	}
	return 0, nil
}
func (m *repoMock) BooksPerCategory(ctx context.Context) ([]dashboardrepo.CategoryCount, error) {
	return []dashboardrepo.CategoryCount{{Title: "Novela", Count: 6}}, nil
}
func (m *repoMock) TopReservedBooks(ctx context.Context, limit int) ([]dashboardrepo.ReservedBook, error) {
	return []dashboardrepo.ReservedBook{{Title: "El Quijote", Reservations: 9}}, nil
}
func (m *repoMock) ReservationsPerMonth(ctx context.Context, year int) ([]dashboardrepo.MonthCount, error) {
	return m.perMonth, nil
}

func TestGenerate_FullMonthSeries(t *testing.T) {
	s := New(&repoMock{perMonth: []dashboardrepo.MonthCount{
		{Month: 1, Total: 3},
		{Month: 12, Total: 5},
	}})

	report, err := s.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(10), report.Books)
	require.Equal(t, int64(2), report.NotGiveBack)
	require.Equal(t, []dashboardrepo.CategoryCount{{Title: "Novela", Count: 6}}, report.BooksPerCategory)

	require.Len(t, report.ReservationsPerMonth, 12)
	require.Equal(t, MonthTotal{Month: "January", Total: 3}, report.ReservationsPerMonth[0])
	require.Equal(t, MonthTotal{Month: "February", Total: 0}, report.ReservationsPerMonth[1])
	require.Equal(t, MonthTotal{Month: "December", Total: 5}, report.ReservationsPerMonth[11])
}

func TestGenerate_IgnoresOutOfRangeMonths(t *testing.T) {
	s := New(&repoMock{perMonth: []dashboardrepo.MonthCount{{Month: 13, Total: 99}}})

	report, err := s.Generate(context.Background())
	require.NoError(t, err)
	for _, m := range report.ReservationsPerMonth {
		require.Zero(t, m.Total)
	}
}
