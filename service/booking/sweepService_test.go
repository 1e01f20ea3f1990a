package booking

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SuperarseTics/library-superarse-backend/model"
	mailerrepo "github.com/SuperarseTics/library-superarse-backend/repository/mailer"
)

type sweepRepoMock struct {
	listAbandonedFn func(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	hardDeleteFn    func(ctx context.Context, tx *sql.Tx, id int64) error
	flagOverdueFn   func(ctx context.Context, now time.Time) (int64, error)
	listByStatusFn  func(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error)
}

func (m *sweepRepoMock) ListAbandoned(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	return m.listAbandonedFn(ctx, cutoff)
}
func (m *sweepRepoMock) HardDeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	return m.hardDeleteFn(ctx, tx, id)
}
func (m *sweepRepoMock) FlagOverdue(ctx context.Context, now time.Time) (int64, error) {
	return m.flagOverdueFn(ctx, now)
}
func (m *sweepRepoMock) ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error) {
	return m.listByStatusFn(ctx, status)
}

type stockMock struct {
	incFn func(ctx context.Context, tx *sql.Tx, bookID int64) error
}

func (m *stockMock) IncrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) error {
	return m.incFn(ctx, tx, bookID)
}

type notifMock struct {
	rules model.NotificationRules
}

func (m *notifMock) Notifications(ctx context.Context) (model.NotificationRules, error) {
	return m.rules, nil
}

type mailerMock struct {
	sendFn func(ctx context.Context, msg mailerrepo.Message) error
	sent   []mailerrepo.Message
}

func (m *mailerMock) Send(ctx context.Context, msg mailerrepo.Message) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClearAbandoned_KeepsSweepingOnRowFailure(t *testing.T) {
	db, mock := newMockDB(t)
	// first booking clears, second fails on stock restore
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	stale := []model.Booking{
		{ID: 1, UUID: "a", BookID: 10, Status: model.BookingReserved},
		{ID: 2, UUID: "b", BookID: 20, Status: model.BookingReserved},
	}
	r := &sweepRepoMock{
		listAbandonedFn: func(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
			require.WithinDuration(t, time.Now().UTC().Add(-48*time.Hour), cutoff, time.Minute)
			return stale, nil
		},
		hardDeleteFn: func(ctx context.Context, tx *sql.Tx, id int64) error { return nil },
	}
	br := &stockMock{incFn: func(ctx context.Context, tx *sql.Tx, bookID int64) error {
		if bookID == 20 {
			return errors.New("boom")
		}
		return nil
	}}

	s := NewSweeper(db, r, br, &notifMock{}, mailerrepo.NewNoop(), discard())
	removed, err := s.ClearAbandoned(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFlagOverdue_NotificationsDisabled(t *testing.T) {
	db, _ := newMockDB(t)
	r := &sweepRepoMock{
		flagOverdueFn: func(ctx context.Context, now time.Time) (int64, error) { return 3, nil },
		listByStatusFn: func(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error) {
			t.Fatal("should not list overdue bookings when notifications are off")
			return nil, nil
		},
	}
	notif := &notifMock{rules: model.NotificationRules{LastDay: false}}
	mailer := &mailerMock{}

	s := NewSweeper(db, r, &stockMock{}, notif, mailer, discard())
	flagged, notified, err := s.FlagOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), flagged)
	require.Zero(t, notified)
	require.Empty(t, mailer.sent)
}

func overdueDetail(uuid, email, name, title string) model.BookingDetail {
	return model.BookingDetail{
		Booking: model.Booking{
			UUID:             uuid,
			LastGivebackDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			Status:           model.BookingNotReturned,
		},
		UserName:  name,
		UserEmail: email,
		BookTitle: title,
	}
}

func TestFlagOverdue_MailsUsersAndAdmin(t *testing.T) {
	db, _ := newMockDB(t)
	r := &sweepRepoMock{
		flagOverdueFn: func(ctx context.Context, now time.Time) (int64, error) { return 2, nil },
		listByStatusFn: func(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error) {
			require.Equal(t, model.BookingNotReturned, status)
			return []model.BookingDetail{
				overdueDetail("a", "ana@example.com", "Ana", "El Quijote"),
				overdueDetail("b", "luis@example.com", "Luis", "Cien años de soledad"),
			}, nil
		},
	}
	notif := &notifMock{rules: model.NotificationRules{LastDay: true, Email: "admin@superarse.edu.ec"}}
	mailer := &mailerMock{}

	s := NewSweeper(db, r, &stockMock{}, notif, mailer, discard())
	flagged, notified, err := s.FlagOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), flagged)
	require.Equal(t, int64(2), notified)

	// one reminder per user plus one admin alert each
	require.Len(t, mailer.sent, 4)
	require.Equal(t, "ana@example.com", mailer.sent[0].To)
	require.Equal(t, "admin@superarse.edu.ec", mailer.sent[1].To)
	require.Equal(t, "luis@example.com", mailer.sent[2].To)
	require.Equal(t, "admin@superarse.edu.ec", mailer.sent[3].To)
}

func TestFlagOverdue_MailFailureDoesNotStopFanOut(t *testing.T) {
	db, _ := newMockDB(t)
	r := &sweepRepoMock{
		flagOverdueFn: func(ctx context.Context, now time.Time) (int64, error) { return 0, nil },
		listByStatusFn: func(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error) {
			return []model.BookingDetail{
				overdueDetail("a", "down@example.com", "Ana", "El Quijote"),
				overdueDetail("b", "luis@example.com", "Luis", "Rayuela"),
			}, nil
		},
	}
	notif := &notifMock{rules: model.NotificationRules{LastDay: true}}
	mailer := &mailerMock{sendFn: func(ctx context.Context, msg mailerrepo.Message) error {
		if msg.To == "down@example.com" {
			return errors.New("smtp relay down")
		}
		return nil
	}}

	s := NewSweeper(db, r, &stockMock{}, notif, mailer, discard())
	_, notified, err := s.FlagOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), notified)
	require.Len(t, mailer.sent, 1)
}
