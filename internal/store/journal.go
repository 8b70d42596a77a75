package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
)

// JournalStore defines the interface for journal entry persistence.
// Version: 1.0
type JournalStore interface {
	// Create saves a new journal entry.
	// It handles domain validation internally.
	Create(ctx context.Context, entry *domain.JournalEntry) error

	// GetByID retrieves a journal entry by its unique ID.
	// Returns ErrJournalEntryNotFound if the entry does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)

	// List returns the user's entries, newest first.
	// Returns an empty slice if the user has none.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.JournalEntry, error)

	// Delete removes a journal entry by its unique ID.
	// Returns ErrJournalEntryNotFound if the entry does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats counts the user's entries in total and per level.
	Stats(ctx context.Context, userID uuid.UUID) (domain.JournalStats, error)

	// WithTx returns a new JournalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) JournalStore
}
