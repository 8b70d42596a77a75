package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/store"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, badRequest("%s is required", paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, badRequest("%s has invalid format", paramName)
	}

	return id, nil
}

// queryInt parses an optional integer query parameter. Absent means zero.
func queryInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, badRequest("%s must be a non-negative integer", name)
	}
	return n, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(q url.Values, name string) (*domain.Date, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseReadingFilter builds a store.ReadingFilter from
// ?kind=&favorites=&from=&to=&limit=&offset=.
func parseReadingFilter(r *http.Request) (store.ReadingFilter, error) {
	q := r.URL.Query()
	var filter store.ReadingFilter

	switch kind := domain.ReadingKind(q.Get("kind")); kind {
	case "":
	case domain.ReadingKindDaily, domain.ReadingKindSpread:
		filter.Kind = kind
	default:
		return filter, badRequest("unknown reading kind %q", kind)
	}

	if raw := q.Get("favorites"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, badRequest("favorites must be a boolean")
		}
		filter.FavoritesOnly = fav
	}

	var err error
	if filter.From, err = queryDate(q, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(q, "to"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(q, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(q, "offset"); err != nil {
		return filter, err
	}

	return filter, nil
}
