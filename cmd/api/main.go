// Package main is the entry point for the seasonal content server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andymabb/Petra/internal/api"
	"github.com/andymabb/Petra/internal/calendar"
	"github.com/andymabb/Petra/internal/config"
	"github.com/andymabb/Petra/internal/database"
	"github.com/andymabb/Petra/internal/logger"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting seasonal content server",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("site_dir", cfg.SiteDir),
		slog.String("timezone", cfg.TimeZone),
		slog.String("log_level", cfg.LogLevel),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database ready", slog.String("path", cfg.DatabasePath), slog.Int("migrations_applied", applied))

	clock := calendar.RealClock{Location: cfg.Location()}
	handlers := api.NewHandlers(db, cfg, clock, log)
	site := api.NewSiteHandler(os.DirFS(cfg.SiteDir), handlers.Resolver(), log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.SetupRoutes(handlers, site, cfg, log),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverError := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil

	case err := <-serverError:
		return fmt.Errorf("listen: %w", err)
	}
}
