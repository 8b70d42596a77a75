package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/platform/sqlite"
	"github.com/phrazzld/tarot-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

var fortuneDay = domain.DateOf(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), time.UTC)

func newMockFortuneService(t *testing.T, readings *MockReadingStore) FortuneService {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	svc, err := NewFortuneService(readings, newTestOracle(t, tarot.NewSeededRand(7)), log)
	require.NoError(t, err)
	return svc
}

func storedDailyReading(t *testing.T, userID uuid.UUID) *domain.Reading {
	t.Helper()
	r, err := domain.NewDailyReading(userID, tarot.SpreadDaily, fortuneDay,
		[]domain.DrawnCard{{Name: "The Sun", Position: "今日运势"}},
		domain.Interpretation{
			General: tarot.GenericSummary,
			Cards:   []domain.CardMeaning{{Position: "今日运势", Meaning: "warmth"}},
		},
		domain.Fortune{General: "g", LuckyColor: "金色", LuckyNumber: 3},
	)
	require.NoError(t, err)
	return r
}

func TestNewFortuneService_Validation(t *testing.T) {
	oracle := newTestOracle(t, nil)

	_, err := NewFortuneService(nil, oracle, nil)
	assert.Error(t, err)

	_, err = NewFortuneService(&MockReadingStore{}, nil, nil)
	assert.Error(t, err)

	svc, err := NewFortuneService(&MockReadingStore{}, oracle, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestFortuneService_Run_Existing(t *testing.T) {
	userID := uuid.New()
	existing := storedDailyReading(t, userID)

	readings := &MockReadingStore{}
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).Return(existing, nil).Once()

	got, err := newMockFortuneService(t, readings).Run(context.Background(), userID, fortuneDay)

	require.NoError(t, err)
	assert.Equal(t, FortuneExisting, got.State)
	assert.Same(t, existing, got.Reading)
	readings.AssertExpectations(t)
	readings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFortuneService_Run_Fresh(t *testing.T) {
	userID := uuid.New()

	readings := &MockReadingStore{}
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
		Return(nil, store.ErrReadingNotFound).Once()
	readings.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Reading) bool {
		return r.UserID == userID && r.Kind == domain.ReadingKindDaily
	})).Return(nil).Once()

	got, err := newMockFortuneService(t, readings).Run(context.Background(), userID, fortuneDay)

	require.NoError(t, err)
	assert.Equal(t, FortuneFresh, got.State)

	r := got.Reading
	require.Len(t, r.Cards, 1)
	assert.Equal(t, "今日运势", r.Cards[0].Position)
	assert.Equal(t, tarot.SpreadDaily, r.SpreadID)
	assert.Equal(t, tarot.GenericSummary, r.Interpretation.General)
	require.NotNil(t, r.FortuneDate)
	assert.Equal(t, fortuneDay, *r.FortuneDate)
	require.NotNil(t, r.Fortune)
	assert.Contains(t, tarot.LuckyColors, r.Fortune.LuckyColor)
	assert.GreaterOrEqual(t, r.Fortune.LuckyNumber, 1)
	assert.LessOrEqual(t, r.Fortune.LuckyNumber, tarot.MaxLuckyNumber)
	readings.AssertExpectations(t)
}

func TestFortuneService_Run_ReconcilesConflict(t *testing.T) {
	userID := uuid.New()
	winner := storedDailyReading(t, userID)

	readings := &MockReadingStore{}
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
		Return(nil, store.ErrReadingNotFound).Once()
	readings.On("Create", mock.Anything, mock.Anything).
		Return(store.ErrDailyFortuneExists).Once()
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
		Return(winner, nil).Once()

	got, err := newMockFortuneService(t, readings).Run(context.Background(), userID, fortuneDay)

	require.NoError(t, err)
	assert.Equal(t, FortuneExisting, got.State)
	assert.Equal(t, winner.ID, got.Reading.ID)
	readings.AssertExpectations(t)
}

func TestFortuneService_Run_StorageFailures(t *testing.T) {
	userID := uuid.New()
	backend := errors.New("database is locked")

	tests := []struct {
		name  string
		setup func(m *MockReadingStore)
	}{
		{
			name: "lookup fails",
			setup: func(m *MockReadingStore) {
				m.On("FindDailyFortune", mock.Anything, userID, fortuneDay).Return(nil, backend)
			},
		},
		{
			name: "save fails",
			setup: func(m *MockReadingStore) {
				m.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
					Return(nil, store.ErrReadingNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(backend)
			},
		},
		{
			name: "reload after conflict fails",
			setup: func(m *MockReadingStore) {
				m.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
					Return(nil, store.ErrReadingNotFound).Once()
				m.On("Create", mock.Anything, mock.Anything).Return(store.ErrDailyFortuneExists)
				m.On("FindDailyFortune", mock.Anything, userID, fortuneDay).Return(nil, backend).Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			readings := &MockReadingStore{}
			tc.setup(readings)

			got, err := newMockFortuneService(t, readings).Run(context.Background(), userID, fortuneDay)

			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrStorage)
			assert.ErrorIs(t, err, backend)
			readings.AssertExpectations(t)
		})
	}
}

func TestFortuneService_Run_InvalidArguments(t *testing.T) {
	readings := &MockReadingStore{}
	svc := newMockFortuneService(t, readings)

	_, err := svc.Run(context.Background(), uuid.Nil, fortuneDay)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Run(context.Background(), uuid.New(), domain.Date{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	readings.AssertNotCalled(t, "FindDailyFortune", mock.Anything, mock.Anything, mock.Anything)
}

func TestFortuneService_Run_CallerGivesUp(t *testing.T) {
	userID := uuid.New()
	release := make(chan struct{})
	var once sync.Once

	readings := &MockReadingStore{}
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
		Run(func(mock.Arguments) { once.Do(func() { <-release }) }).
		Return(storedDailyReading(t, userID), nil)

	svc := newMockFortuneService(t, readings)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, userID, fortuneDay)
	assert.ErrorIs(t, err, context.Canceled)

	// The abandoned run still completes for the next caller.
	close(release)
	got, err := svc.Run(context.Background(), userID, fortuneDay)
	require.NoError(t, err)
	assert.Equal(t, FortuneExisting, got.State)
}

func TestFortuneService_Run_JoinersSeeExisting(t *testing.T) {
	userID := uuid.New()
	entered := make(chan struct{})
	release := make(chan struct{})

	readings := &MockReadingStore{}
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
		Return(nil, store.ErrReadingNotFound).Once()
	readings.On("FindDailyFortune", mock.Anything, userID, fortuneDay).
		Return(storedDailyReading(t, userID), nil)
	readings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Reading")).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(nil).Once()

	svc := newMockFortuneService(t, readings)

	const callers = 4
	states := make([]FortuneState, callers)
	var g errgroup.Group
	g.Go(func() error {
		res, err := svc.Run(context.Background(), userID, fortuneDay)
		if err == nil {
			states[0] = res.State
		}
		return err
	})

	<-entered
	for i := 1; i < callers; i++ {
		g.Go(func() error {
			res, err := svc.Run(context.Background(), userID, fortuneDay)
			if err == nil {
				states[i] = res.State
			}
			return err
		})
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, g.Wait())

	assert.Equal(t, FortuneFresh, states[0])
	for _, state := range states[1:] {
		assert.Equal(t, FortuneExisting, state)
	}
}

func TestFortuneService_Run_SameDayIsIdempotent(t *testing.T) {
	db, _ := openTestDB(t)
	log, _ := logger.GetTestLogger(t)
	svc, err := NewFortuneService(sqlite.NewSQLiteReadingStore(db, log), newTestOracle(t, nil), log)
	require.NoError(t, err)

	userID := uuid.New()
	first, err := svc.Run(context.Background(), userID, fortuneDay)
	require.NoError(t, err)
	assert.Equal(t, FortuneFresh, first.State)

	second, err := svc.Run(context.Background(), userID, fortuneDay)
	require.NoError(t, err)
	assert.Equal(t, FortuneExisting, second.State)
	assert.Equal(t, first.Reading.ID, second.Reading.ID)
	assert.Equal(t, first.Reading.Cards, second.Reading.Cards)
	assert.Equal(t, first.Reading.Fortune, second.Reading.Fortune)

	nextDay, err := svc.Run(context.Background(), userID, fortuneDay.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, FortuneFresh, nextDay.State)
	assert.NotEqual(t, first.Reading.ID, nextDay.Reading.ID)
}

// TestFortuneService_Run_ConcurrentFirstLoad runs two independent workflow
// instances, each on its own connection pool, against one database file so
// the in-process singleflight cannot hide the race from the unique index.
func TestFortuneService_Run_ConcurrentFirstLoad(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	ctx := context.Background()
	_, path := openTestDB(t)
	log, _ := logger.GetTestLogger(t)

	services := make([]FortuneService, 2)
	for i := range services {
		db, err := sqlite.Open(ctx, path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		svc, err := NewFortuneService(
			sqlite.NewSQLiteReadingStore(db, log),
			newTestOracle(t, tarot.NewSeededRand(uint64(i+1))),
			log,
		)
		require.NoError(t, err)
		services[i] = svc
	}

	userID := uuid.New()
	const callers = 8
	results := make([]*DailyFortune, callers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			res, err := services[i%len(services)].Run(gctx, userID, fortuneDay)
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())

	fresh := 0
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, results[0].Reading.ID, res.Reading.ID, "every caller must see the same reading")
		if res.State == FortuneFresh {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh, "only the caller that created the fortune reports it fresh")

	readings := sqlite.NewSQLiteReadingStore(reopenDB(t, path), log)
	daily, err := readings.List(ctx, userID, store.ReadingFilter{Kind: domain.ReadingKindDaily})
	require.NoError(t, err)
	assert.Len(t, daily, 1)
}

func reopenDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
