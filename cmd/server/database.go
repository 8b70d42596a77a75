package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tarot-api/internal/config"
	"github.com/phrazzld/tarot-api/internal/platform/migrate"
	"github.com/phrazzld/tarot-api/internal/platform/postgres"
	"github.com/phrazzld/tarot-api/internal/platform/sqlite"
	"github.com/phrazzld/tarot-api/internal/redact"
	"github.com/phrazzld/tarot-api/internal/store"
)

// database is an open connection together with the stores and migration
// source of its backend.
type database struct {
	db         *sql.DB
	migrations migrate.Source
	readings   store.ReadingStore
	journal    store.JournalStore
}

// openDatabase connects to the configured backend.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %s", redact.Error(err))
		}
		log.Info("database connection established", slog.String("driver", cfg.Driver))
		return &database{
			db:         db,
			migrations: postgres.Migrations,
			readings:   postgres.NewPostgresReadingStore(db, log),
			journal:    postgres.NewPostgresJournalStore(db, log),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		log.Info("database connection established",
			slog.String("driver", cfg.Driver),
			slog.String("path", cfg.URL))
		return &database{
			db:         db,
			migrations: sqlite.Migrations,
			readings:   sqlite.NewSQLiteReadingStore(db, log),
			journal:    sqlite.NewSQLiteJournalStore(db, log),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// migrate runs a goose command against the database.
func (d *database) migrate(ctx context.Context, command string, log *slog.Logger) error {
	return migrate.Run(ctx, d.db, d.migrations, command, log)
}

func (d *database) close(log *slog.Logger) {
	if err := d.db.Close(); err != nil {
		log.Error("error closing database connection", slog.String("error", err.Error()))
	}
}
