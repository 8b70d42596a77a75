package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tarot-api/internal/api/shared"
	"github.com/phrazzld/tarot-api/internal/domain/tarot"
	"github.com/phrazzld/tarot-api/internal/service"
)

// CatalogHandler serves the static card catalog, the spread definitions
// and the caller's statistics.
type CatalogHandler struct {
	catalog *tarot.Catalog
	stats   service.StatsService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *tarot.Catalog, stats service.StatsService, logger *slog.Logger) *CatalogHandler {
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil for CatalogHandler")
	}
	if stats == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stats cannot be nil for CatalogHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}
	return &CatalogHandler{
		catalog: catalog,
		stats:   stats,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListCards handles GET /cards requests.
func (h *CatalogHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, CardsResponse{
		Cards:    h.catalog.Cards(),
		Fallback: h.catalog.Fallback(),
	})
}

// ListSpreads handles GET /spreads requests.
func (h *CatalogHandler) ListSpreads(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, SpreadsResponse{Spreads: tarot.Spreads()})
}

// GetStats handles GET /stats requests.
func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Get(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
