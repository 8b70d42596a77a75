package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tarot-api/internal/api/shared"
	"github.com/phrazzld/tarot-api/internal/domain"
	"github.com/phrazzld/tarot-api/internal/platform/logger"
	"github.com/phrazzld/tarot-api/internal/service"
)

// JournalHandler handles journal HTTP requests
type JournalHandler struct {
	journal service.JournalService
	logger  *slog.Logger
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journal service.JournalService, logger *slog.Logger) *JournalHandler {
	if journal == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("journal cannot be nil for JournalHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for JournalHandler")
	}
	return &JournalHandler{
		journal: journal,
		logger:  logger.With(slog.String("component", "journal_handler")),
	}
}

// CreateEntry handles POST /journal requests.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateJournalEntryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, badRequest("decode journal request: %v", err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entry, err := h.journal.Create(r.Context(), req.Title, req.Content, domain.JournalLevel(req.Level))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("journal entry created",
		slog.String("entry_id", entry.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// ListEntries handles GET /journal requests. The response carries the
// requested page and the caller's per-level totals.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(q, "offset")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.journal.List(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	stats, err := h.journal.Stats(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, JournalListResponse{Entries: entries, Stats: stats})
}

// DeleteEntry handles DELETE /journal/{id} requests.
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.journal.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
