package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/platform/sqlite"
	"github.com/phrazzld/tarot-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed IntN and Float64 results.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		panic("scriptedRand: IntN queue exhausted")
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		panic("scriptedRand: Float64 queue exhausted")
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func newTestOracle(t *testing.T, rng tarot.Rand) *Oracle {
	t.Helper()
	catalog := tarot.DefaultCatalog()
	drawer, err := tarot.NewDrawer(catalog, tarot.DefaultReversalProbability)
	require.NoError(t, err)
	oracle, err := NewOracle(drawer, tarot.NewInterpreter(catalog), rng)
	require.NoError(t, err)
	return oracle
}

// openTestDB returns a migrated SQLite database and its file path.
func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tarot.db")
	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.GetTestLogger(t)
	require.NoError(t, sqlite.Migrate(ctx, db, log))
	return db, path
}

func asUser(id uuid.UUID) context.Context {
	return auth.WithUserID(context.Background(), id)
}

// sqliteServices wires the reading and journal services to a fresh database.
type sqliteServices struct {
	db       *sql.DB
	readings ReadingService
	journal  JournalService
	stats    StatsService
}

func newSQLiteServices(t *testing.T, rng tarot.Rand) sqliteServices {
	t.Helper()

	db, _ := openTestDB(t)
	log, _ := logger.GetTestLogger(t)
	readingStore := sqlite.NewSQLiteReadingStore(db, log)
	journalStore := sqlite.NewSQLiteJournalStore(db, log)

	readings, err := NewReadingService(db, readingStore, newTestOracle(t, rng), log)
	require.NoError(t, err)
	journal, err := NewJournalService(db, journalStore, log)
	require.NoError(t, err)
	stats, err := NewStatsService(readingStore, journalStore, log)
	require.NoError(t, err)

	return sqliteServices{db: db, readings: readings, journal: journal, stats: stats}
}
