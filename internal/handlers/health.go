package handlers

import (
	"net/http"

	"github.com/openheartlab/openheart-backend/internal/services"
)

// HealthHandler serves liveness and AI diagnostics endpoints.
type HealthHandler struct {
	Classifier *services.AIClassifier
}

// Ping handles GET /api/health/ping.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// AIDiag handles GET /api/health/ai. Reports provider configuration without
// exposing key material.
func (h *HealthHandler) AIDiag(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Classifier.Diag())
}
