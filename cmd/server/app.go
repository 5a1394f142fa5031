package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kavitasoren02/TaskManager/internal/config"
	"github.com/kavitasoren02/TaskManager/internal/platform/postgres"
	"github.com/kavitasoren02/TaskManager/internal/realtime"
	"github.com/kavitasoren02/TaskManager/internal/service"
	"github.com/kavitasoren02/TaskManager/internal/service/auth"
	"github.com/kavitasoren02/TaskManager/internal/store"
)

// application holds the wired dependency graph: one database connection
// pool, the stores over it, the services over the stores, and the
// realtime hub the adapters broadcast through.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *sql.DB

	userStore         store.UserStore
	taskStore         store.TaskStore
	notificationStore store.NotificationStore

	jwtService          auth.JWTService
	passwordHasher      *auth.BcryptVerifier
	taskService         *service.TaskService
	notificationService *service.NotificationService

	hub *realtime.Hub
}

// newApplication connects to the database, applies migrations, and
// wires every component.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		closeQuietly(db, logger)
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	notificationStore := postgres.NewPostgresNotificationStore(db, logger)

	notificationService := service.NewNotificationService(notificationStore, logger)
	taskService := service.NewTaskService(taskStore, userStore, notificationService, logger)

	return &application{
		config:              cfg,
		logger:              logger,
		db:                  db,
		userStore:           userStore,
		taskStore:           taskStore,
		notificationStore:   notificationStore,
		jwtService:          jwtService,
		passwordHasher:      auth.NewBcryptVerifier(),
		taskService:         taskService,
		notificationService: notificationService,
		hub:                 realtime.NewHub(logger),
	}, nil
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run() error {
	defer app.cleanup()
	return app.startHTTPServer(app.setupRouter())
}

// cleanup releases held resources.
func (app *application) cleanup() {
	closeQuietly(app.db, app.logger)
}

func closeQuietly(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
