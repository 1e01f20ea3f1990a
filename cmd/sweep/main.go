// Command sweep runs the periodic booking maintenance jobs. It is meant
// to be invoked from cron (once a day is enough): first it reclaims
// reservations that were never picked up, then it flags and notifies
// overdue loans.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SuperarseTics/library-superarse-backend/config"
	bookrepo "github.com/SuperarseTics/library-superarse-backend/repository/book"
	bookingrepo "github.com/SuperarseTics/library-superarse-backend/repository/booking"
	mailerrepo "github.com/SuperarseTics/library-superarse-backend/repository/mailer"
	settingrepo "github.com/SuperarseTics/library-superarse-backend/repository/setting"
	bookingsvc "github.com/SuperarseTics/library-superarse-backend/service/booking"
	settingsvc "github.com/SuperarseTics/library-superarse-backend/service/setting"
	"github.com/SuperarseTics/library-superarse-backend/util/database"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	log := slog.Default()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	mailer := mailerrepo.NewNoop()
	if cfg.MailAPIURL != "" {
		mailer = mailerrepo.NewHTTP(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	}

	settingSvc := settingsvc.New(settingrepo.New(db))
	sweeper := bookingsvc.NewSweeper(db, bookingrepo.New(db), bookrepo.New(db), settingSvc, mailer, log)

	removed, err := sweeper.ClearAbandoned(ctx)
	if err != nil {
		log.Error("abandoned sweep failed", "err", err)
		os.Exit(1)
	}

	flagged, notified, err := sweeper.FlagOverdue(ctx)
	if err != nil {
		log.Error("overdue sweep failed", "err", err)
		os.Exit(1)
	}

	log.Info("sweep done", "removed", removed, "flagged", flagged, "notified", notified)
}
