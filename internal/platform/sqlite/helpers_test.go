package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a migrated database in a per-test temp dir.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "tarot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.GetTestLogger(t)
	require.NoError(t, Migrate(ctx, db, log))
	return db
}

func testCards() ([]domain.DrawnCard, domain.Interpretation) {
	cards := []domain.DrawnCard{{Name: "The Star", Position: "今日运势"}}
	interp := domain.Interpretation{
		General: "general",
		Cards:   []domain.CardMeaning{{Position: "今日运势", Meaning: "hope"}},
	}
	return cards, interp
}

func newDailyReading(t *testing.T, userID uuid.UUID, date domain.Date) *domain.Reading {
	t.Helper()
	cards, interp := testCards()
	r, err := domain.NewDailyReading(userID, "daily", date, cards, interp, domain.Fortune{
		General:     "g",
		Love:        "l",
		Career:      "c",
		Health:      "h",
		LuckyColor:  "金色",
		LuckyNumber: 7,
	})
	require.NoError(t, err)
	return r
}

func newSpreadReading(t *testing.T, userID uuid.UUID, createdAt time.Time) *domain.Reading {
	t.Helper()
	cards, interp := testCards()
	r, err := domain.NewReading(userID, "single", "what now?", cards, interp)
	require.NoError(t, err)
	r.CreatedAt = createdAt.UTC()
	r.UpdatedAt = createdAt.UTC()
	return r
}
