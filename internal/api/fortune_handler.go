package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tarot-api/internal/api/shared"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/service"
	"github.com/phrazzld/tarot-api/internal/service/auth"
)

// FortuneHandler serves the daily fortune. POST draws it; GET only reads.
type FortuneHandler struct {
	fortunes service.FortuneService
	readings service.ReadingService
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewFortuneHandler creates a new FortuneHandler. location decides which
// calendar day "today" is; nil means UTC.
func NewFortuneHandler(
	fortunes service.FortuneService,
	readings service.ReadingService,
	location *time.Location,
	logger *slog.Logger,
) *FortuneHandler {
	if fortunes == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("fortunes cannot be nil for FortuneHandler")
	}
	if readings == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("readings cannot be nil for FortuneHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FortuneHandler")
	}
	if location == nil {
		location = time.UTC
	}

	return &FortuneHandler{
		fortunes: fortunes,
		readings: readings,
		location: location,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "fortune_handler")),
	}
}

// Today handles POST /fortune/today. The first call of the day draws and
// stores the fortune and answers 201; later calls answer 200 with the same
// reading.
func (h *FortuneHandler) Today(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, service.ErrUnauthenticated, "")
		return
	}

	today := domain.DateOf(h.now(), h.location)
	result, err := h.fortunes.Run(r.Context(), userID, today)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	status := http.StatusOK
	if result.State == service.FortuneFresh {
		status = http.StatusCreated
	}

	shared.RespondWithJSON(w, r, status, FortuneResponse{
		Reading: result.Reading,
		State:   string(result.State),
		Date:    today,
	})
}

// Peek handles GET /fortune/today. It never draws: a day without a stored
// fortune answers 404.
func (h *FortuneHandler) Peek(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := auth.UserIDFromContext(r.Context()); !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, service.ErrUnauthenticated, "")
		return
	}

	today := domain.DateOf(h.now(), h.location)
	reading, err := h.readings.FindDailyFortune(r.Context(), today)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if reading == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "No fortune drawn today")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FortuneResponse{
		Reading: reading,
		State:   string(service.FortuneExisting),
		Date:    today,
	})
}
