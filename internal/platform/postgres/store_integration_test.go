//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDatabaseURLEnv names the database the integration tests migrate and write to.
const testDatabaseURLEnv = "TAROT_TEST_DATABASE_URL"

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx := context.Background()
	db, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.GetTestLogger(t)
	require.NoError(t, Migrate(ctx, db, log))
	return db
}

// withTx runs fn inside a transaction that is always rolled back.
func withTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	fn(tx)
}

func dailyReading(t *testing.T, userID uuid.UUID, date domain.Date) *domain.Reading {
	t.Helper()
	r, err := domain.NewDailyReading(userID, "daily", date,
		[]domain.DrawnCard{{Name: "The Sun", Position: "今日运势"}},
		domain.Interpretation{General: "g", Cards: []domain.CardMeaning{{Position: "今日运势", Meaning: "m"}}},
		domain.Fortune{General: "g", Love: "l", Career: "c", Health: "h", LuckyColor: "红色", LuckyNumber: 3},
	)
	require.NoError(t, err)
	r.CreatedAt = r.CreatedAt.Truncate(time.Microsecond)
	r.UpdatedAt = r.CreatedAt
	return r
}

func TestPostgresReadingStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	withTx(t, db, func(tx *sql.Tx) {
		s := NewPostgresReadingStore(tx, nil)
		userID := uuid.New()
		date := domain.Date{Year: 2026, Month: time.October, Day: 19}

		reading := dailyReading(t, userID, date)
		require.NoError(t, s.Create(ctx, reading))

		got, err := s.GetByID(ctx, reading.ID)
		require.NoError(t, err)
		assert.Equal(t, reading, got)

		found, err := s.FindDailyFortune(ctx, userID, date)
		require.NoError(t, err)
		assert.Equal(t, reading.ID, found.ID)

		favorite := true
		updated, err := s.Update(ctx, reading.ID, domain.ReadingUpdate{IsFavorite: &favorite})
		require.NoError(t, err)
		assert.True(t, updated.IsFavorite)

		counts, err := s.Count(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, store.ReadingCounts{Total: 1, Favorites: 1}, counts)

		list, err := s.List(ctx, userID, store.ReadingFilter{Kind: domain.ReadingKindDaily})
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, s.Delete(ctx, reading.ID))
		_, err = s.GetByID(ctx, reading.ID)
		assert.ErrorIs(t, err, store.ErrReadingNotFound)
	})
}

func TestPostgresReadingStoreDailyFortuneConflict(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	withTx(t, db, func(tx *sql.Tx) {
		s := NewPostgresReadingStore(tx, nil)
		userID := uuid.New()
		date := domain.Date{Year: 2026, Month: time.October, Day: 19}

		require.NoError(t, s.Create(ctx, dailyReading(t, userID, date)))
		err := s.Create(ctx, dailyReading(t, userID, date))
		assert.ErrorIs(t, err, store.ErrDailyFortuneExists)
	})
}

func TestPostgresJournalStore(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	withTx(t, db, func(tx *sql.Tx) {
		s := NewPostgresJournalStore(tx, nil)
		userID := uuid.New()

		entry, err := domain.NewJournalEntry(userID, "title", "content", domain.JournalLevelError)
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, entry))

		list, err := s.List(ctx, userID, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, entry.ID, list[0].ID)

		stats, err := s.Stats(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1, stats.ByLevel[domain.JournalLevelError])

		require.NoError(t, s.Delete(ctx, entry.ID))
		assert.ErrorIs(t, s.Delete(ctx, entry.ID), store.ErrJournalEntryNotFound)
	})
}
