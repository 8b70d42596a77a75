package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
)

// JournalService manages the caller's journal entries.
type JournalService interface {
	// Create writes a new entry owned by the caller. An empty level means INFO.
	Create(ctx context.Context, title, content string, level domain.JournalLevel) (*domain.JournalEntry, error)

	// List returns the caller's entries, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error)

	// Delete removes one of the caller's entries.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats counts the caller's entries in total and per level.
	Stats(ctx context.Context) (domain.JournalStats, error)
}

type journalServiceImpl struct {
	db      *sql.DB
	entries store.JournalStore
	logger  *slog.Logger
}

// NewJournalService creates a new JournalService.
func NewJournalService(db *sql.DB, entries store.JournalStore, logger *slog.Logger) (JournalService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if entries == nil {
		return nil, errors.New("journal store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &journalServiceImpl{
		db:      db,
		entries: entries,
		logger:  logger.With(slog.String("component", "journal_service")),
	}, nil
}

func (s *journalServiceImpl) Create(
	ctx context.Context,
	title, content string,
	level domain.JournalLevel,
) (*domain.JournalEntry, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := domain.NewJournalEntry(caller, title, content, level)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, s.storeFailure(ctx, "create_journal_entry", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("journal entry created",
		slog.String("entry_id", entry.ID.String()),
		slog.String("level", string(entry.Level)))

	return entry, nil
}

func (s *journalServiceImpl) List(ctx context.Context, limit, offset int) ([]*domain.JournalEntry, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	limit, offset = store.NormalizePage(limit, offset)
	entries, err := s.entries.List(ctx, caller, limit, offset)
	if err != nil {
		return nil, s.storeFailure(ctx, "list_journal_entries", err)
	}
	return entries, nil
}

func (s *journalServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	caller, err := callerID(ctx)
	if err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.entries.WithTx(tx)

		entry, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(caller, entry.UserID); err != nil {
			return err
		}
		return txStore.Delete(ctx, id)
	})
	if err != nil {
		return s.storeFailure(ctx, "delete_journal_entry", err)
	}
	return nil
}

func (s *journalServiceImpl) Stats(ctx context.Context) (domain.JournalStats, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return domain.JournalStats{}, err
	}

	stats, err := s.entries.Stats(ctx, caller)
	if err != nil {
		return domain.JournalStats{}, s.storeFailure(ctx, "journal_stats", err)
	}
	return stats, nil
}

func (s *journalServiceImpl) storeFailure(ctx context.Context, op string, err error) error {
	mapped := mapStoreError(op, err, ErrJournalEntryNotFound)
	if errors.Is(mapped, ErrStorage) {
		logger.FromContextOrDefault(ctx, s.logger).Error("journal storage failure",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
	return mapped
}
