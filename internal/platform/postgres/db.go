package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/tarot-api/internal/platform/migrate"
	"github.com/phrazzld/tarot-api/internal/platform/postgres/migrations"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// Migrations is the goose source for the PostgreSQL schema.
var Migrations = migrate.Source{Dialect: "postgres", FS: migrations.FS}

// Open establishes a connection pool to the database at url and verifies it
// with a ping. Migrations are not applied; see Migrate.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies all pending PostgreSQL migrations.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	return migrate.Run(ctx, db, Migrations, migrate.CommandUp, log)
}
