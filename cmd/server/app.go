package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bambini-app/bambini-api/internal/config"
	"github.com/bambini-app/bambini-api/internal/platform/email"
	"github.com/bambini-app/bambini-api/internal/platform/metrics"
	"github.com/bambini-app/bambini-api/internal/platform/postgres"
	"github.com/bambini-app/bambini-api/internal/service"
	"github.com/bambini-app/bambini-api/internal/service/auth"
	"github.com/bambini-app/bambini-api/internal/session"
	"github.com/bambini-app/bambini-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	guardianStore store.GuardianStore
	childStore    store.ChildStore
	schoolStore   store.SchoolStore
	activityStore store.ActivityStore

	// Services
	metrics         *metrics.Metrics
	identityService *auth.Service
	sessionManager  *session.Manager
	registryService *service.RegistryService
	activityService *service.ActivityService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.metrics = metrics.New()

	// Stores
	app.guardianStore = postgres.NewPostgresGuardianStore(db, logger)
	app.childStore = postgres.NewPostgresChildStore(db, logger)
	app.schoolStore = postgres.NewPostgresSchoolStore(db, logger)
	app.activityStore = postgres.NewPostgresActivityStore(db, logger)

	// JWT service
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Confirmation email sender
	sender, err := email.NewSESSender(ctx, cfg.Email, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Local identity provider
	app.identityService, err = auth.NewService(auth.ServiceConfig{
		Guardians:           app.guardianStore,
		JWT:                 jwtService,
		Passwords:           auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Sender:              sender,
		Metrics:             app.metrics,
		RequireConfirmation: cfg.Auth.RequireEmailConfirmation,
		Logger:              logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity provider: %w", err)
	}

	// Session manager: observes the provider's notification stream and
	// logs lifecycle transitions.
	app.sessionManager, err = session.NewManager(app.identityService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}
	app.sessionManager.Start(ctx)
	app.sessionManager.Subscribe(func(snap session.Snapshot) {
		logger.Debug("session state changed", "state", string(snap.State))
	})

	// Registry service
	app.registryService, err = service.NewRegistryService(
		app.childStore,
		app.schoolStore,
		app.metrics,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry service: %w", err)
	}

	// Activity service
	app.activityService, err = service.NewActivityService(
		app.activityStore,
		app.registryService,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sessionManager != nil {
		app.sessionManager.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
