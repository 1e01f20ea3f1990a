package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SuperarseTics/library-superarse-backend/app/echoServer"
	authctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/auth"
	bookctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/book"
	bookingctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/booking"
	categoryctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/category"
	dashboardctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/dashboard"
	settingctl "github.com/SuperarseTics/library-superarse-backend/app/echoServer/controller/setting"
	"github.com/SuperarseTics/library-superarse-backend/app/echoServer/validation"
	"github.com/SuperarseTics/library-superarse-backend/config"
	authrepo "github.com/SuperarseTics/library-superarse-backend/repository/auth"
	bookrepo "github.com/SuperarseTics/library-superarse-backend/repository/book"
	bookingrepo "github.com/SuperarseTics/library-superarse-backend/repository/booking"
	categoryrepo "github.com/SuperarseTics/library-superarse-backend/repository/category"
	dashboardrepo "github.com/SuperarseTics/library-superarse-backend/repository/dashboard"
	settingrepo "github.com/SuperarseTics/library-superarse-backend/repository/setting"
	authsvc "github.com/SuperarseTics/library-superarse-backend/service/auth"
	booksvc "github.com/SuperarseTics/library-superarse-backend/service/book"
	bookingsvc "github.com/SuperarseTics/library-superarse-backend/service/booking"
	categorysvc "github.com/SuperarseTics/library-superarse-backend/service/category"
	dashboardsvc "github.com/SuperarseTics/library-superarse-backend/service/dashboard"
	settingsvc "github.com/SuperarseTics/library-superarse-backend/service/setting"
	"github.com/SuperarseTics/library-superarse-backend/util/database"
)

// @title           Library Superarse API
// @version         1.0
// @description     Book lending backend for the Superarse library.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	log := slog.Default()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	settingSvc := settingsvc.New(settingrepo.New(db))
	bookRepo := bookrepo.New(db)
	categoryRepo := categoryrepo.New(db)
	categorySvc := categorysvc.New(categoryRepo)
	bookSvc := booksvc.New(bookRepo, categoryRepo)
	bookingSvc := bookingsvc.New(db, bookingrepo.New(db), bookRepo, settingSvc)
	dashboardSvc := dashboardsvc.New(dashboardrepo.New(db))
	authSvc := authsvc.New(authrepo.New(db), cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	e := echo.New()
	e.HideBanner = true

	val := validation.New()
	e.Validator = val

	echoServer.RegisterMiddlewares(e)
	echoServer.Register(e, echoServer.C{
		Auth:      &authctl.Controller{Svc: authSvc, V: val.Rules(), Log: log},
		Book:      &bookctl.Controller{Svc: bookSvc, V: val.Rules(), Log: log},
		Booking:   &bookingctl.Controller{Svc: bookingSvc, V: val.Rules(), Log: log},
		Category:  &categoryctl.Controller{Svc: categorySvc, V: val.Rules(), Log: log},
		Dashboard: &dashboardctl.Controller{Svc: dashboardSvc, Log: log},
		Setting:   &settingctl.Controller{Svc: settingSvc, Log: log},
	}, cfg.JWTSecret, func(c echo.Context, jti string) (bool, error) {
		return authSvc.IsRevoked(c.Request().Context(), jti)
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()
	log.Info("server started", "port", cfg.Port, "env", cfg.Env)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
	log.Info("server stopped")
}
