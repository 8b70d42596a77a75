package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
)

// SQLiteJournalStore implements the store.JournalStore interface
// using a SQLite database as the storage backend.
type SQLiteJournalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteJournalStore creates a new SQLite implementation of the JournalStore interface.
func NewSQLiteJournalStore(db store.DBTX, logger *slog.Logger) *SQLiteJournalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteJournalStore{
		db:     db,
		logger: logger.With(slog.String("component", "journal_store")),
	}
}

var _ store.JournalStore = (*SQLiteJournalStore)(nil)

// Create implements store.JournalStore.Create.
func (s *SQLiteJournalStore) Create(ctx context.Context, entry *domain.JournalEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("journal entry validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO journal_entries (` + journalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.Title,
		entry.Content,
		string(entry.Level),
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		log.Error("failed to create journal entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()))
		return store.NewStoreError("journal entry", "create", "failed to create journal entry", MapError(err))
	}

	log.Debug("journal entry created successfully",
		slog.String("entry_id", entry.ID.String()),
		slog.String("level", string(entry.Level)))
	return nil
}

// GetByID implements store.JournalStore.GetByID.
func (s *SQLiteJournalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE id = ?`
	entry, err := scanJournalEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJournalEntryNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get journal entry by ID",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return nil, store.NewStoreError("journal entry", "get", "failed to get journal entry", MapError(err))
	}
	return entry, nil
}

// List implements store.JournalStore.List.
func (s *SQLiteJournalStore) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.JournalEntry, error) {
	limit, offset = store.NormalizePage(limit, offset)

	query := `SELECT ` + journalColumns + ` FROM journal_entries
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list journal entries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("journal entry", "list", "failed to list journal entries", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, store.NewStoreError("journal entry", "list", "failed to scan journal entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("journal entry", "list", "failed to iterate journal entries", err)
	}
	return entries, nil
}

// Delete implements store.JournalStore.Delete.
func (s *SQLiteJournalStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete journal entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return store.NewStoreError("journal entry", "delete", "failed to delete journal entry", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrJournalEntryNotFound)
}

// Stats implements store.JournalStore.Stats.
func (s *SQLiteJournalStore) Stats(ctx context.Context, userID uuid.UUID) (domain.JournalStats, error) {
	query := `SELECT level, COUNT(*) FROM journal_entries WHERE user_id = ? GROUP BY level`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute journal stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return domain.JournalStats{}, store.NewStoreError("journal entry", "stats", "failed to compute journal stats", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	stats := domain.NewJournalStats()
	for rows.Next() {
		var (
			level string
			count int
		)
		if err := rows.Scan(&level, &count); err != nil {
			return domain.JournalStats{}, store.NewStoreError("journal entry", "stats", "failed to scan journal stats", err)
		}
		stats.ByLevel[domain.JournalLevel(level)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.JournalStats{}, store.NewStoreError("journal entry", "stats", "failed to iterate journal stats", err)
	}
	return stats, nil
}

// WithTx implements store.JournalStore.WithTx.
func (s *SQLiteJournalStore) WithTx(tx *sql.Tx) store.JournalStore {
	return &SQLiteJournalStore{
		db:     tx,
		logger: s.logger,
	}
}
