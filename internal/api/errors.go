package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tarot-api/internal/api/shared"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/service"
	"github.com/phrazzld/tarot-api/internal/service/auth"
)

// errBadRequest marks request decoding and parameter parsing failures.
var errBadRequest = errors.New("bad request")

// badRequest wraps a request parsing failure so it maps to 400.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrReadingNotFound),
		errors.Is(err, service.ErrJournalEntryNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, tarot.ErrInvalidSpread),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, errBadRequest),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Backend failures are worth retrying
	case errors.Is(err, service.ErrStorage):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, service.ErrReadingNotFound):
		return "Reading not found"

	case errors.Is(err, service.ErrJournalEntryNotFound):
		return "Journal entry not found"

	case errors.Is(err, service.ErrConflict):
		return "Record already exists"

	case errors.Is(err, tarot.ErrInvalidSpread):
		return "Invalid spread"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrInvalidDate):
		return "Invalid date, expected YYYY-MM-DD"

	case errors.Is(err, service.ErrInvalidInput):
		return invalidInputMessage(err)

	case errors.Is(err, errBadRequest):
		return "Invalid request"

	case errors.Is(err, service.ErrStorage):
		return "Storage temporarily unavailable, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// invalidInputMessage names the rejected field for the domain validation
// errors a client can fix.
func invalidInputMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuestionTooLong):
		return "Question is too long"
	case errors.Is(err, domain.ErrNotesTooLong):
		return "Notes are too long"
	case errors.Is(err, domain.ErrEmptyReadingUpdate):
		return "Nothing to update"
	case errors.Is(err, domain.ErrEmptyJournalTitle):
		return "Title is required"
	case errors.Is(err, domain.ErrJournalTitleTooLong):
		return "Title is too long"
	case errors.Is(err, domain.ErrEmptyJournalContent):
		return "Content is required"
	case errors.Is(err, domain.ErrJournalTooLong):
		return "Content is too long"
	case errors.Is(err, domain.ErrInvalidJournalLevel):
		return "Invalid journal level"
	default:
		return "Invalid input"
	}
}

// HandleAPIError maps err to a status code and a safe message, logs the
// redacted details and writes the error response. A non-empty message
// overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'DrawReadingRequest.SpreadID' Error:Field validation for 'SpreadID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			// Further split to get just the field validation part
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				// Create a cleaner error message
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid ID format"
	default:
		return "validation failed"
	}
}
