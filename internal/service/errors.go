package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tarot-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Backend failures are wrapped in *StorageError, which matches ErrStorage
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrUnauthenticated indicates there is no caller identity on the context.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrReadingNotFound indicates that the reading does not exist.
	ErrReadingNotFound = errors.New("reading not found")

	// ErrJournalEntryNotFound indicates that the journal entry does not exist.
	ErrJournalEntryNotFound = errors.New("journal entry not found")

	// ErrInvalidInput wraps a validation failure of caller-supplied data.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the write collides with an existing record.
	ErrConflict = errors.New("conflicting record exists")

	// ErrStorage indicates a transient backend failure. Callers may retry;
	// services never do.
	ErrStorage = errors.New("storage unavailable")
)

// StorageError wraps a backend failure with the operation that hit it.
// errors.Is(err, ErrStorage) reports true for every StorageError.
type StorageError struct {
	// Operation is the operation that failed (e.g., "save_reading")
	Operation string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// mapStoreError translates a store error into the service taxonomy.
// notFound is returned for store-level "not found" errors.
func mapStoreError(operation string, err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFoundError(err) && notFound != nil:
		return notFound
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case store.IsDuplicateError(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case isServiceError(err):
		return err
	default:
		return &StorageError{Operation: operation, Err: err}
	}
}

// isServiceError reports whether err already belongs to the service taxonomy.
func isServiceError(err error) bool {
	for _, target := range []error{
		ErrUnauthenticated,
		ErrNotOwned,
		ErrReadingNotFound,
		ErrJournalEntryNotFound,
		ErrInvalidInput,
		ErrConflict,
		ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// invalidInput marks a validation failure of caller-supplied data.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
