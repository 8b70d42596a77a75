package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tarot-api/internal/api"
	apiMiddleware "github.com/phrazzld/tarot-api/internal/api/middleware"
	"github.com/phrazzld/tarot-api/internal/config"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/service"
	"github.com/phrazzld/tarot-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database

	catalog *tarot.Catalog

	jwtService     auth.JWTService
	readingService service.ReadingService
	fortuneService service.FortuneService
	journalService service.JournalService
	statsService   service.StatsService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database must already be open; the application takes ownership of it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *database, rng tarot.Rand) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.catalog, err = loadCatalog(cfg.Tarot.CatalogPath)
	if err != nil {
		return nil, err
	}

	drawer, err := tarot.NewDrawer(app.catalog, cfg.Tarot.ReversalProbability)
	if err != nil {
		return nil, fmt.Errorf("failed to create drawer: %w", err)
	}
	oracle, err := service.NewOracle(drawer, tarot.NewInterpreter(app.catalog), rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle: %w", err)
	}

	app.readingService, err = service.NewReadingService(db.db, db.readings, oracle, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reading service: %w", err)
	}
	app.fortuneService, err = service.NewFortuneService(db.readings, oracle, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create fortune service: %w", err)
	}
	app.journalService, err = service.NewJournalService(db.db, db.journal, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal service: %w", err)
	}
	app.statsService, err = service.NewStatsService(db.readings, db.journal, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}

	logger.Info("application initialized successfully",
		slog.Int("catalog_size", app.catalog.Size()),
		slog.Float64("reversal_probability", drawer.ReversalProbability()))
	return app, nil
}

// loadCatalog returns the embedded catalog, or the one at path when set.
func loadCatalog(path string) (*tarot.Catalog, error) {
	if path == "" {
		return tarot.DefaultCatalog(), nil
	}
	catalog, err := tarot.LoadCatalogFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load card catalog: %w", err)
	}
	return catalog, nil
}

// setupRouter creates the HTTP handler tree from the application services.
func (app *application) setupRouter() (http.Handler, error) {
	location, err := app.config.Tarot.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	return api.NewRouter(api.Handlers{
		Readings: api.NewReadingHandler(app.readingService, app.logger),
		Fortune:  api.NewFortuneHandler(app.fortuneService, app.readingService, location, app.logger),
		Journal:  api.NewJournalHandler(app.journalService, app.logger),
		Catalog:  api.NewCatalogHandler(app.catalog, app.statsService, app.logger),
		Auth:     apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger),
	}, app.logger), nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns when ctx is canceled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return err
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		app.db.close(app.logger)
	}
	app.logger.Info("application shutdown completed")
}
