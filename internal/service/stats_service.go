package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// StatsService reports the caller's profile counters.
type StatsService interface {
	Get(ctx context.Context) (domain.UserStats, error)
}

type statsServiceImpl struct {
	readings store.ReadingStore
	entries  store.JournalStore
	logger   *slog.Logger
}

// NewStatsService creates a new StatsService.
func NewStatsService(readings store.ReadingStore, entries store.JournalStore, logger *slog.Logger) (StatsService, error) {
	if readings == nil {
		return nil, errors.New("readings store cannot be nil")
	}
	if entries == nil {
		return nil, errors.New("journal store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &statsServiceImpl{
		readings: readings,
		entries:  entries,
		logger:   logger.With(slog.String("component", "stats_service")),
	}, nil
}

// Get implements StatsService.Get
func (s *statsServiceImpl) Get(ctx context.Context) (domain.UserStats, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return domain.UserStats{}, err
	}

	var (
		counts  store.ReadingCounts
		journal domain.JournalStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.readings.Count(gctx, caller)
		return mapStoreError("count_readings", err, nil)
	})
	g.Go(func() error {
		var err error
		journal, err = s.entries.Stats(gctx, caller)
		return mapStoreError("journal_stats", err, nil)
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to gather stats",
			slog.String("user_id", caller.String()),
			slog.String("error", err.Error()))
		return domain.UserStats{}, err
	}

	return domain.UserStats{
		ReadingsCount:  counts.Total,
		FavoritesCount: counts.Favorites,
		JournalCount:   journal.Total,
	}, nil
}
