package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/tarot-api/internal/api/middleware"
)

// Handlers bundles the route handlers NewRouter mounts.
type Handlers struct {
	Readings *ReadingHandler
	Fortune  *FortuneHandler
	Journal  *JournalHandler
	Catalog  *CatalogHandler
	Auth     *apiMiddleware.AuthMiddleware
}

// NewRouter creates the application router with all routes and middleware.
// Everything under /api requires a bearer token; /health is public.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.Auth.Authenticate)

		r.Get("/cards", h.Catalog.ListCards)
		r.Get("/spreads", h.Catalog.ListSpreads)
		r.Get("/stats", h.Catalog.GetStats)

		r.Post("/fortune/today", h.Fortune.Today)
		r.Get("/fortune/today", h.Fortune.Peek)

		r.Post("/readings", h.Readings.DrawReading)
		r.Get("/readings", h.Readings.ListReadings)
		r.Get("/readings/{id}", h.Readings.GetReading)
		r.Patch("/readings/{id}", h.Readings.UpdateReading)
		r.Delete("/readings/{id}", h.Readings.DeleteReading)

		r.Post("/journal", h.Journal.CreateEntry)
		r.Get("/journal", h.Journal.ListEntries)
		r.Delete("/journal/{id}", h.Journal.DeleteEntry)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
