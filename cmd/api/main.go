// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dangerclosesec/tracker/internal/auth"
	"github.com/dangerclosesec/tracker/internal/config"
	"github.com/dangerclosesec/tracker/internal/email"
	"github.com/dangerclosesec/tracker/internal/email/mailer"
	"github.com/dangerclosesec/tracker/internal/handler"
	"github.com/dangerclosesec/tracker/internal/repository"
	"github.com/dangerclosesec/tracker/internal/service"
	"github.com/dangerclosesec/tracker/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     parseLevel(cfg.Log.Level),
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Initialize database
	db, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Postgres schemas are owned by trackerctl migrate; sqlite is self-managed.
	if cfg.Database.Driver == config.DriverSQLite {
		if err := store.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrating sqlite database: %w", err)
		}
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Email notifications are optional
	var notifier service.Notifier
	if cfg.Sendgrid.APIKey != "" {
		emailService, err := email.NewEmailService(cfg)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
		notifier = mailer.NewNotifier(emailService, cfg.BaseURL)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, email notifications disabled")
	}

	activityService := service.NewActivityService(activityRepo)
	trackerService := service.NewTrackerService(
		orgRepo,
		projectRepo,
		taskRepo,
		commentRepo,
		activityService,
		notifier,
		logger,
	)

	router := handler.NewRouter(
		logger,
		tokenManager,
		handler.NewTrackerHandler(trackerService),
		handler.NewActivityHandler(activityService),
	)

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		// Pending notifications are bounded by their own timeout
		trackerService.Wait()
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
