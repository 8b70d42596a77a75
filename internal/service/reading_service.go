package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
)

// ReadingService provides the caller-scoped reading operations.
// Every method requires an authenticated caller on the context.
type ReadingService interface {
	// Draw draws the spread, interprets it and saves the result for the caller.
	// The daily spread is reserved for the fortune workflow.
	Draw(ctx context.Context, spreadID, question string) (*domain.Reading, error)

	// Save persists a reading owned by the caller. A nil UserID is set to
	// the caller.
	Save(ctx context.Context, reading *domain.Reading) error

	// GetByID returns one of the caller's readings.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reading, error)

	// List returns the caller's readings, newest first. Never NotFound.
	List(ctx context.Context, filter store.ReadingFilter) ([]*domain.Reading, error)

	// Update changes notes and/or the favorite flag of one of the caller's readings.
	Update(ctx context.Context, id uuid.UUID, update domain.ReadingUpdate) (*domain.Reading, error)

	// Delete removes one of the caller's readings.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDailyFortune returns the caller's daily reading for date, or nil
	// when none has been drawn.
	FindDailyFortune(ctx context.Context, date domain.Date) (*domain.Reading, error)
}

// readingServiceImpl implements ReadingService
type readingServiceImpl struct {
	db       *sql.DB
	readings store.ReadingStore
	oracle   *Oracle
	logger   *slog.Logger
}

// NewReadingService creates a new ReadingService.
// It returns an error if any of the required dependencies are nil.
func NewReadingService(
	db *sql.DB,
	readings store.ReadingStore,
	oracle *Oracle,
	logger *slog.Logger,
) (ReadingService, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if readings == nil {
		return nil, errors.New("readings store cannot be nil")
	}
	if oracle == nil {
		return nil, errors.New("oracle cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &readingServiceImpl{
		db:       db,
		readings: readings,
		oracle:   oracle,
		logger:   logger.With(slog.String("component", "reading_service")),
	}, nil
}

// Draw implements ReadingService.Draw
func (s *readingServiceImpl) Draw(ctx context.Context, spreadID, question string) (*domain.Reading, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if spreadID == tarot.SpreadDaily {
		return nil, fmt.Errorf("%w: %q is reserved for the daily fortune", tarot.ErrInvalidSpread, spreadID)
	}

	cards, interp, err := s.oracle.Read(spreadID)
	if err != nil {
		log.Debug("draw rejected",
			slog.String("spread_id", spreadID),
			slog.String("error", err.Error()))
		return nil, err
	}

	reading, err := domain.NewReading(caller, spreadID, question, cards, interp)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := s.Save(ctx, reading); err != nil {
		return nil, err
	}

	log.Info("reading drawn",
		slog.String("reading_id", reading.ID.String()),
		slog.String("user_id", caller.String()),
		slog.String("spread_id", spreadID))

	return reading, nil
}

// Save implements ReadingService.Save
func (s *readingServiceImpl) Save(ctx context.Context, reading *domain.Reading) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	caller, err := callerID(ctx)
	if err != nil {
		return err
	}

	if reading == nil {
		return invalidInput(errors.New("reading cannot be nil"))
	}
	if reading.UserID == uuid.Nil {
		reading.UserID = caller
	}
	if err := checkOwner(caller, reading.UserID); err != nil {
		log.Warn("refusing to save reading for another user",
			slog.String("user_id", caller.String()),
			slog.String("owner_id", reading.UserID.String()))
		return err
	}

	spread, err := tarot.SpreadByID(reading.SpreadID)
	if err != nil {
		return err
	}
	if len(reading.Cards) != spread.CardCount {
		return fmt.Errorf("%w: %s expects %d cards, got %d",
			tarot.ErrInvalidSpread, spread.ID, spread.CardCount, len(reading.Cards))
	}

	if err := s.readings.Create(ctx, reading); err != nil {
		mapped := mapStoreError("save_reading", err, nil)
		if errors.Is(mapped, ErrStorage) {
			log.Error("failed to save reading",
				slog.String("user_id", caller.String()),
				slog.String("error", err.Error()))
		}
		return mapped
	}

	return nil
}

// GetByID implements ReadingService.GetByID
func (s *readingServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reading, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	reading, err := s.readings.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeFailure(ctx, "get_reading", id, err)
	}

	if err := checkOwner(caller, reading.UserID); err != nil {
		return nil, err
	}

	return reading, nil
}

// List implements ReadingService.List
func (s *readingServiceImpl) List(ctx context.Context, filter store.ReadingFilter) ([]*domain.Reading, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, invalidInput(errors.New("date range ends before it starts"))
	}

	readings, err := s.readings.List(ctx, caller, filter.Normalize())
	if err != nil {
		return nil, s.storeFailure(ctx, "list_readings", uuid.Nil, err)
	}

	return readings, nil
}

// Update implements ReadingService.Update
// The ownership check and the write share one transaction.
func (s *readingServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.ReadingUpdate,
) (*domain.Reading, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := update.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	var updated *domain.Reading
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.readings.WithTx(tx)

		existing, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(caller, existing.UserID); err != nil {
			return err
		}

		updated, err = txStore.Update(ctx, id, update)
		return err
	})
	if err != nil {
		return nil, s.storeFailure(ctx, "update_reading", id, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("reading updated",
		slog.String("reading_id", id.String()))

	return updated, nil
}

// Delete implements ReadingService.Delete
func (s *readingServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	caller, err := callerID(ctx)
	if err != nil {
		return err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.readings.WithTx(tx)

		existing, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(caller, existing.UserID); err != nil {
			return err
		}

		return txStore.Delete(ctx, id)
	})
	if err != nil {
		return s.storeFailure(ctx, "delete_reading", id, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("reading deleted",
		slog.String("reading_id", id.String()),
		slog.String("user_id", caller.String()))

	return nil
}

// FindDailyFortune implements ReadingService.FindDailyFortune
func (s *readingServiceImpl) FindDailyFortune(ctx context.Context, date domain.Date) (*domain.Reading, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		return nil, invalidInput(domain.ErrInvalidDate)
	}

	reading, err := s.readings.FindDailyFortune(ctx, caller, date)
	if errors.Is(err, store.ErrReadingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storeFailure(ctx, "find_daily_fortune", uuid.Nil, err)
	}

	return reading, nil
}

// storeFailure maps err and logs it when it is a backend failure.
func (s *readingServiceImpl) storeFailure(ctx context.Context, op string, id uuid.UUID, err error) error {
	mapped := mapStoreError(op, err, ErrReadingNotFound)
	if errors.Is(mapped, ErrStorage) {
		log := logger.FromContextOrDefault(ctx, s.logger)
		attrs := []any{slog.String("operation", op), slog.String("error", err.Error())}
		if id != uuid.Nil {
			attrs = append(attrs, slog.String("reading_id", id.String()))
		}
		log.Error("reading storage failure", attrs...)
	}
	return mapped
}
