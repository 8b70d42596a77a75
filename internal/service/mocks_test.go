package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockReadingStore mocks the store.ReadingStore interface
type MockReadingStore struct {
	mock.Mock
}

func (m *MockReadingStore) Create(ctx context.Context, reading *domain.Reading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func (m *MockReadingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reading, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Reading), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReadingStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ReadingFilter,
) ([]*domain.Reading, error) {
	args := m.Called(ctx, userID, filter)
	if r := args.Get(0); r != nil {
		return r.([]*domain.Reading), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReadingStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update domain.ReadingUpdate,
) (*domain.Reading, error) {
	args := m.Called(ctx, id, update)
	if r := args.Get(0); r != nil {
		return r.(*domain.Reading), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReadingStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReadingStore) FindDailyFortune(
	ctx context.Context,
	userID uuid.UUID,
	date domain.Date,
) (*domain.Reading, error) {
	args := m.Called(ctx, userID, date)
	if r := args.Get(0); r != nil {
		return r.(*domain.Reading), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReadingStore) Count(ctx context.Context, userID uuid.UUID) (store.ReadingCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(store.ReadingCounts), args.Error(1)
}

func (m *MockReadingStore) WithTx(tx *sql.Tx) store.ReadingStore {
	return m
}

// MockJournalStore mocks the store.JournalStore interface
type MockJournalStore struct {
	mock.Mock
}

func (m *MockJournalStore) Create(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*domain.JournalEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalStore) List(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.JournalEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if e := args.Get(0); e != nil {
		return e.([]*domain.JournalEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJournalStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJournalStore) Stats(ctx context.Context, userID uuid.UUID) (domain.JournalStats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.JournalStats), args.Error(1)
}

func (m *MockJournalStore) WithTx(tx *sql.Tx) store.JournalStore {
	return m
}

var (
	_ store.ReadingStore = (*MockReadingStore)(nil)
	_ store.JournalStore = (*MockJournalStore)(nil)
)
