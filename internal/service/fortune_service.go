package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// FortuneState tells whether Run created the daily fortune or found it.
type FortuneState string

// Possible fortune states
const (
	FortuneExisting FortuneState = "existing"
	FortuneFresh    FortuneState = "fresh"
)

// DailyFortune is the outcome of the daily fortune workflow.
type DailyFortune struct {
	Reading *domain.Reading `json:"reading"`
	State   FortuneState    `json:"state"`
}

// FortuneService runs the once-per-day fortune workflow.
type FortuneService interface {
	// Run returns userID's fortune for today, drawing and saving it on the
	// first call of the day. Repeated calls return the stored record.
	Run(ctx context.Context, userID uuid.UUID, today domain.Date) (*DailyFortune, error)
}

// fortuneServiceImpl implements FortuneService
type fortuneServiceImpl struct {
	readings store.ReadingStore
	oracle   *Oracle
	logger   *slog.Logger
	group    singleflight.Group
}

// NewFortuneService creates a new FortuneService.
// It returns an error if any of the required dependencies are nil.
func NewFortuneService(readings store.ReadingStore, oracle *Oracle, logger *slog.Logger) (FortuneService, error) {
	if readings == nil {
		return nil, errors.New("readings store cannot be nil")
	}
	if oracle == nil {
		return nil, errors.New("oracle cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &fortuneServiceImpl{
		readings: readings,
		oracle:   oracle,
		logger:   logger.With(slog.String("component", "fortune_service")),
	}, nil
}

// Run implements FortuneService.Run
// Concurrent calls for the same user and day within this process share a
// single execution and its reading. Only the call that started the
// execution reports FortuneFresh; the calls that joined it report
// FortuneExisting. Races with other processes are settled by the store's
// uniqueness constraint.
func (s *fortuneServiceImpl) Run(ctx context.Context, userID uuid.UUID, today domain.Date) (*DailyFortune, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if today.IsZero() {
		return nil, invalidInput(domain.ErrInvalidDate)
	}

	key := userID.String() + "|" + today.String()
	// The shared run must outlive any single caller giving up.
	runCtx := context.WithoutCancel(ctx)
	// Set only by the caller whose function singleflight executes. The
	// receive from ch orders the write before the read below.
	started := false
	ch := s.group.DoChan(key, func() (any, error) {
		started = true
		return s.run(runCtx, userID, today)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		fortune := res.Val.(*DailyFortune)
		if !started && fortune.State == FortuneFresh {
			return &DailyFortune{Reading: fortune.Reading, State: FortuneExisting}, nil
		}
		return fortune, nil
	}
}

func (s *fortuneServiceImpl) run(ctx context.Context, userID uuid.UUID, today domain.Date) (*DailyFortune, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("fortune_date", today.String()),
	)

	existing, err := s.readings.FindDailyFortune(ctx, userID, today)
	switch {
	case err == nil:
		log.Debug("daily fortune already drawn")
		return &DailyFortune{Reading: existing, State: FortuneExisting}, nil
	case !errors.Is(err, store.ErrReadingNotFound):
		log.Error("failed to look up daily fortune", slog.String("error", err.Error()))
		return nil, &StorageError{Operation: "find_daily_fortune", Err: err}
	}

	cards, interp, fortune, err := s.oracle.DailyFortune()
	if err != nil {
		return nil, fmt.Errorf("failed to draw daily fortune: %w", err)
	}

	reading, err := domain.NewDailyReading(userID, tarot.SpreadDaily, today, cards, interp, fortune)
	if err != nil {
		return nil, invalidInput(err)
	}

	err = s.readings.Create(ctx, reading)
	switch {
	case err == nil:
		log.Info("daily fortune drawn",
			slog.String("reading_id", reading.ID.String()),
			slog.String("card", cards[0].Name))
		return &DailyFortune{Reading: reading, State: FortuneFresh}, nil
	case errors.Is(err, store.ErrDailyFortuneExists):
		// Another process saved first; theirs is the day's fortune.
		log.Info("daily fortune saved concurrently, using stored record")
		stored, findErr := s.readings.FindDailyFortune(ctx, userID, today)
		if findErr != nil {
			log.Error("failed to reload daily fortune after conflict", slog.String("error", findErr.Error()))
			return nil, &StorageError{Operation: "find_daily_fortune", Err: findErr}
		}
		return &DailyFortune{Reading: stored, State: FortuneExisting}, nil
	default:
		log.Error("failed to save daily fortune", slog.String("error", err.Error()))
		return nil, &StorageError{Operation: "save_daily_fortune", Err: err}
	}
}
