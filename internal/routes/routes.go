package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/openheartlab/openheart-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux, entries *handlers.EntryHandler, vents *handlers.VentHandler, health *handlers.HealthHandler) {
	// Journal entry routes
	r.Route("/api/entries", func(r chi.Router) {
		r.Post("/", entries.Create)
		r.Get("/", entries.List)
		r.Post("/classify", entries.Classify)
		r.Get("/stats", entries.Stats)
		r.Get("/{id}", entries.GetByID)
		r.Patch("/{id}", entries.Update)
		r.Delete("/{id}", entries.Delete)
	})

	// Vent routes
	r.Route("/api/vents", func(r chi.Router) {
		r.Post("/", vents.Create)
		r.Get("/", vents.List)
		r.Get("/stats/summary", vents.Stats)
		r.Get("/{id}", vents.GetByID)
		r.Patch("/{id}", vents.Update)
		r.Delete("/{id}", vents.Delete)
	})

	// Health routes
	r.Get("/api/health/ping", health.Ping)
	r.Get("/api/health/ai", health.AIDiag)

	// WebSocket endpoint for the live document feed
	r.Get("/ws/feed", handlers.FeedWebSocket)
}
