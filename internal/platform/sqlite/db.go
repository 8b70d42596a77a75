package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/phrazzld/tarot-api/internal/platform/migrate"
	"github.com/phrazzld/tarot-api/internal/platform/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Migrations is the goose source for the SQLite schema.
var Migrations = migrate.Source{Dialect: "sqlite3", FS: migrations.FS}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the SQLite database at path in WAL mode and verifies the
// connection. Migrations are not applied; see Migrate.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serialises writers inside this process; the
	// busy timeout covers writers in other processes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Migrate applies all pending SQLite migrations.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	return migrate.Run(ctx, db, Migrations, migrate.CommandUp, log)
}
