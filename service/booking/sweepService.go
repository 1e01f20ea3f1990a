package booking

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/SuperarseTics/library-superarse-backend/model"
	mailerrepo "github.com/SuperarseTics/library-superarse-backend/repository/mailer"
	"github.com/SuperarseTics/library-superarse-backend/util/metrics"
)

// SweepRepo is the slice of the booking repository the periodic jobs need.
type SweepRepo interface {
	ListAbandoned(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	HardDeleteTx(ctx context.Context, tx *sql.Tx, id int64) error
	FlagOverdue(ctx context.Context, now time.Time) (int64, error)
	ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.BookingDetail, error)
}

// StockRestorer restores a copy when an abandoned reservation is removed.
type StockRestorer interface {
	IncrementStockTx(ctx context.Context, tx *sql.Tx, bookID int64) error
}

// Notifications reads the mail fan-out policy from the settings store.
type Notifications interface {
	Notifications(ctx context.Context) (model.NotificationRules, error)
}

type Sweeper interface {
	// ClearAbandoned removes reservations never delivered within the grace
	// window and restores their stock. Returns the number removed.
	ClearAbandoned(ctx context.Context) (int64, error)

	// FlagOverdue marks past-deadline bookings No Devuelto and, when enabled,
	// mails every currently-overdue user (and the administrator). Each run
	// re-notifies all still-overdue bookings; that daily-reminder behavior is
	// intentional. Returns flagged and notified counts.
	FlagOverdue(ctx context.Context) (flagged, notified int64, err error)
}

// abandonedGrace is how long an undelivered reservation may sit before the
// cleanup sweep reclaims the copy.
const abandonedGrace = 48 * time.Hour

type sweeper struct {
	db     *sql.DB
	r      SweepRepo
	br     StockRestorer
	notif  Notifications
	mailer mailerrepo.Repo
	log    *slog.Logger
}

func NewSweeper(db *sql.DB, r SweepRepo, br StockRestorer, notif Notifications, mailer mailerrepo.Repo, log *slog.Logger) Sweeper {
	return &sweeper{db: db, r: r, br: br, notif: notif, mailer: mailer, log: log}
}

func (s *sweeper) ClearAbandoned(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	stale, err := s.r.ListAbandoned(ctx, now.Add(-abandonedGrace))
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, b := range stale {
		if err := s.clearOne(ctx, b); err != nil {
			// keep sweeping; a single failed row should not stop the run
			s.log.Error("clear abandoned booking", "uuid", b.UUID, "err", err)
			continue
		}
		removed++
	}

	metrics.ExpiredBookingsTotal.Add(float64(removed))
	s.log.Info("abandoned reservation sweep", "removed", removed, "at", now)
	return removed, nil
}

// clearOne restores the copy and deletes the booking in one transaction.
func (s *sweeper) clearOne(ctx context.Context, b model.Booking) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.br.IncrementStockTx(ctx, tx, b.BookID); err != nil {
		return err
	}
	if err = s.r.HardDeleteTx(ctx, tx, b.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sweeper) FlagOverdue(ctx context.Context) (flagged, notified int64, err error) {
	now := time.Now().UTC()

	flagged, err = s.r.FlagOverdue(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	metrics.OverdueBookingsTotal.Add(float64(flagged))
	s.log.Info("overdue sweep", "flagged", flagged, "at", now)

	rules, err := s.notif.Notifications(ctx)
	if err != nil {
		return flagged, 0, err
	}
	if !rules.LastDay {
		return flagged, 0, nil
	}

	overdue, err := s.r.ListByStatus(ctx, model.BookingNotReturned)
	if err != nil {
		return flagged, 0, err
	}

	for _, d := range overdue {
		reminder := mailerrepo.Message{
			To:      d.UserEmail,
			Subject: "Recordatorio: libro sin devolver",
			Body: fmt.Sprintf("Hola %s, el libro %q (reserva %s) debía devolverse el %s.",
				d.UserName, d.BookTitle, d.UUID, d.LastGivebackDate.Format("2006-01-02")),
		}
		if err := s.mailer.Send(ctx, reminder); err != nil {
			s.log.Error("overdue reminder", "uuid", d.UUID, "err", err)
			continue
		}
		notified++

		if rules.Email != "" {
			alert := mailerrepo.Message{
				To:      rules.Email,
				Subject: "Devolución atrasada",
				Body: fmt.Sprintf("El usuario %s (%s) no ha devuelto %q (reserva %s).",
					d.UserName, d.UserEmail, d.BookTitle, d.UUID),
			}
			if err := s.mailer.Send(ctx, alert); err != nil {
				s.log.Error("admin late-return alert", "uuid", d.UUID, "err", err)
			}
		}
	}

	s.log.Info("overdue notification sweep", "notified", notified, "at", now)
	return flagged, notified, nil
}
