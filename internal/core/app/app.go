package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xo/dburl"

	"github.com/wartahub/warta/internal/core/domain"
	httpapi "github.com/wartahub/warta/internal/core/http"
	"github.com/wartahub/warta/internal/core/service"
	"github.com/wartahub/warta/internal/core/store"
	"github.com/wartahub/warta/internal/core/store/drivers/sqlite"
	"github.com/wartahub/warta/pkg/cryptox"
	"github.com/wartahub/warta/pkg/jwtx"
	"github.com/wartahub/warta/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the core service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   jwtx.Signer
	keys     *jwtx.KeySet
	verifier jwtx.Verifier

	// Services
	authService       *service.AuthService
	presenceService   *service.PresenceService
	publishingService *service.PublishingService
	tokenService      *service.TokenService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "warta-core",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, keys, verifier, err := initSigningKeys(app.cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.signer = signer
	app.keys = keys
	app.verifier = verifier

	app.initServices()

	if err := app.seedAdmin(); err != nil {
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("core service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down core service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("core service stopped")
	return nil
}

// initDatabase resolves the database URL, opens the store, and applies
// migrations. Only sqlite is wired today; the URL form keeps the door open
// for a hosted driver without a config format change.
func (app *Application) initDatabase() error {
	u, err := dburl.Parse(app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL %q: %w", app.cfg.DatabaseURL, err)
	}

	switch u.Driver {
	case "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q (only sqlite is available)", u.Driver)
	}

	// dburl's DSN is the bare file path; layer on our connection options.
	// _time_format=sqlite makes driver-bound time.Time values land in the
	// canonical text format so lexicographic comparisons stay chronological.
	path := strings.TrimPrefix(u.DSN, "file:")
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_time_format=sqlite", path)

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "url", app.cfg.DatabaseURL)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{Store: app.db}
	app.presenceService = service.NewPresenceService(app.db, app.cfg.OnlineWindow)
	app.publishingService = &service.PublishingService{Store: app.db}
	app.tokenService = &service.TokenService{
		Signer:    app.signer,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTokenTTL,
	}
}

// seedAdmin overwrites the bootstrap admin credential when configured.
func (app *Application) seedAdmin() error {
	if app.cfg.AdminUsername == "" || app.cfg.AdminPassword == "" {
		return nil
	}

	ctx := context.Background()
	if err := app.authService.ResetCredential(ctx, app.cfg.AdminUsername, app.cfg.AdminPassword, domain.RoleAdmin); err != nil {
		return fmt.Errorf("failed to seed admin credential: %w", err)
	}

	app.logger.Info("admin credential seeded", "username", app.cfg.AdminUsername)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.PresenceService = app.presenceService
	router.PublishingService = app.publishingService
	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
