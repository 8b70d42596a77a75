package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
)

// DefaultListLimit caps List results when the filter sets no limit.
const DefaultListLimit = 50

// MaxListLimit is the largest page a List call returns.
const MaxListLimit = 200

// ReadingFilter narrows a reading listing. Zero values mean "no filter".
type ReadingFilter struct {
	Kind          domain.ReadingKind
	FavoritesOnly bool
	// From and To bound CreatedAt to the half-open UTC day range [From, To+1).
	From   *domain.Date
	To     *domain.Date
	Limit  int
	Offset int
}

// Normalize clamps Limit and Offset into their accepted ranges.
func (f ReadingFilter) Normalize() ReadingFilter {
	f.Limit, f.Offset = NormalizePage(f.Limit, f.Offset)
	return f
}

// NormalizePage clamps a limit/offset pair into the accepted ranges.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ReadingCounts holds per-user reading totals.
type ReadingCounts struct {
	Total     int
	Favorites int
}

// ReadingStore defines the interface for reading data persistence.
// Ownership is not checked here; the service layer decides who may act
// on a reading.
// Version: 1.0
type ReadingStore interface {
	// Create saves a new reading. A nil ID is replaced with a fresh one and
	// a zero CreatedAt/UpdatedAt is set to the current time.
	// It handles domain validation internally.
	// Returns ErrDailyFortuneExists if a daily reading already exists for
	// the same user and fortune date.
	Create(ctx context.Context, reading *domain.Reading) error

	// GetByID retrieves a reading by its unique ID.
	// Returns ErrReadingNotFound if the reading does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reading, error)

	// List returns the user's readings matching filter, newest CreatedAt first.
	// Returns an empty slice if nothing matches.
	List(ctx context.Context, userID uuid.UUID, filter ReadingFilter) ([]*domain.Reading, error)

	// Update applies the notes/favorite change to the reading and returns
	// the stored result. Cards and interpretation are never touched.
	// Returns ErrReadingNotFound if the reading does not exist.
	Update(ctx context.Context, id uuid.UUID, update domain.ReadingUpdate) (*domain.Reading, error)

	// Delete removes a reading by its unique ID.
	// Returns ErrReadingNotFound if the reading does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDailyFortune returns the user's daily reading for date, or
	// ErrReadingNotFound when none has been drawn yet.
	FindDailyFortune(ctx context.Context, userID uuid.UUID, date domain.Date) (*domain.Reading, error)

	// Count returns the user's reading and favorite totals.
	Count(ctx context.Context, userID uuid.UUID) (ReadingCounts, error)

	// WithTx returns a new ReadingStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ReadingStore
}
