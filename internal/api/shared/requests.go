package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps a JSON request body. The largest payload, a journal
// entry, holds at most 10000 characters of content.
const MaxBodyBytes = 64 << 10

// Body decoding errors.
var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrBodyTooLarge = errors.New("request body is too large")
	ErrTrailingData = errors.New("request body has data after the JSON value")
)

var validate = validator.New()

// DecodeJSON decodes exactly one JSON value from the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return ErrTrailingData
	}
	return nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case errors.As(err, &tooLarge):
		return ErrBodyTooLarge
	default:
		return err
	}
}

// ValidateRequest checks v against its `validate` struct tags. Failures are
// validator.ValidationErrors.
func ValidateRequest(v any) error {
	return validate.Struct(v)
}
