package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/tarot-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &StorageError{Operation: "save_reading", Err: cause}

	assert.Equal(t, "storage save_reading failed: connection reset", err.Error())
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrReadingNotFound)

	var storageErr *StorageError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &storageErr))
	assert.Equal(t, "save_reading", storageErr.Operation)
}

func TestMapStoreError(t *testing.T) {
	backend := errors.New("disk I/O error")

	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
	}{
		{"nil stays nil", nil, ErrReadingNotFound, nil},
		{"reading not found", store.ErrReadingNotFound, ErrReadingNotFound, ErrReadingNotFound},
		{"journal not found", store.ErrJournalEntryNotFound, ErrJournalEntryNotFound, ErrJournalEntryNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", store.ErrNotFound), ErrReadingNotFound, ErrReadingNotFound},
		{"invalid entity", fmt.Errorf("%w: bad", store.ErrInvalidEntity), nil, ErrInvalidInput},
		{"duplicate", store.ErrDailyFortuneExists, nil, ErrConflict},
		{"service error passes through", ErrNotOwned, ErrReadingNotFound, ErrNotOwned},
		{"backend failure", backend, ErrReadingNotFound, ErrStorage},
		{"not found without mapping", store.ErrNotFound, nil, ErrStorage},
		{"transaction failure", fmt.Errorf("%w: commit", store.ErrTransactionFailed), ErrReadingNotFound, ErrStorage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mapStoreError("op", tc.err, tc.notFound)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapStoreError_KeepsCause(t *testing.T) {
	backend := errors.New("disk I/O error")
	err := mapStoreError("list_readings", backend, ErrReadingNotFound)

	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "list_readings", storageErr.Operation)
	assert.ErrorIs(t, err, backend)
}
