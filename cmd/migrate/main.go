// Command migrate applies the SQL migrations with goose.
//
// Usage:
//
//	migrate up
//	migrate down
//	migrate status
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/SuperarseTics/library-superarse-backend/config"
	"github.com/SuperarseTics/library-superarse-backend/util/database"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	log := slog.Default()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Error("set dialect", "err", err)
		os.Exit(1)
	}

	if err := goose.RunContext(ctx, command, db, "migrations"); err != nil {
		log.Error("migration failed", "command", command, "err", err)
		os.Exit(1)
	}
	log.Info("migration done", "command", command)
}
