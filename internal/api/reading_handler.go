package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tarot-api/internal/api/shared"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/service"
)

// ReadingHandler handles reading-related HTTP requests
type ReadingHandler struct {
	readings service.ReadingService
	logger   *slog.Logger
}

// NewReadingHandler creates a new ReadingHandler
func NewReadingHandler(readings service.ReadingService, logger *slog.Logger) *ReadingHandler {
	if readings == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("readings cannot be nil for ReadingHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReadingHandler")
	}

	return &ReadingHandler{
		readings: readings,
		logger:   logger.With(slog.String("component", "reading_handler")),
	}
}

// DrawReading handles POST /readings requests.
// It draws the requested spread, interprets it and saves the reading.
func (h *ReadingHandler) DrawReading(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req DrawReadingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, badRequest("decode draw request: %v", err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reading, err := h.readings.Draw(r.Context(), req.SpreadID, req.Question)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("reading created", slog.String("reading_id", reading.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, reading)
}

// ListReadings handles GET /readings requests.
func (h *ReadingHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReadingFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	readings, err := h.readings.List(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page := filter.Normalize()
	shared.RespondWithJSON(w, r, http.StatusOK, ReadingListResponse{
		Readings: readings,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
}

// GetReading handles GET /readings/{id} requests.
func (h *ReadingHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reading, err := h.readings.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reading)
}

// UpdateReading handles PATCH /readings/{id} requests.
// Only notes and the favorite flag can change.
func (h *ReadingHandler) UpdateReading(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateReadingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, badRequest("decode update request: %v", err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	reading, err := h.readings.Update(r.Context(), id, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reading)
}

// DeleteReading handles DELETE /readings/{id} requests.
func (h *ReadingHandler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.readings.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("reading deleted", slog.String("reading_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

