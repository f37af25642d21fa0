package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openheartlab/openheart-backend/internal/models"
	"github.com/openheartlab/openheart-backend/internal/services"
	"github.com/openheartlab/openheart-backend/internal/store"
)

// VentHandler serves the vent collection.
type VentHandler struct {
	Store      store.Store[models.Vent]
	Classifier services.Classifier
}

func NewVentHandler(s store.Store[models.Vent], c services.Classifier) *VentHandler {
	return &VentHandler{Store: s, Classifier: c}
}

// Create handles POST /api/vents. On top of classification, vents get a
// best-effort summary: a failed summarization is logged and the vent is
// stored with an empty one.
func (h *VentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	label := strings.TrimSpace(req.Label)
	confidence := req.Confidence
	if label == "" {
		if h.Classifier.Configured() {
			result, err := h.Classifier.Classify(r.Context(), req.Text)
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, "AI unavailable")
				return
			}
			label = string(result.Label)
			confidence = result.Confidence
		} else {
			label = string(models.LabelCalm)
			confidence = 0.0
		}
	}

	summary := ""
	if h.Classifier.Configured() {
		s, err := h.Classifier.Summarize(r.Context(), req.Text)
		if err != nil {
			log.Printf("[vents] summarize failed: %v", err)
		} else {
			summary = s
		}
	}

	vent := models.Vent{
		Document: models.Document{
			Text:       req.Text,
			Label:      models.Label(label),
			Confidence: confidence,
		},
		Summary: summary,
	}

	created, err := h.Store.Create(r.Context(), vent)
	if err != nil {
		if store.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create vent")
		return
	}

	services.Cache.Invalidate(r.Context(), "vents")
	services.Feed.Publish(services.FeedEvent{
		Type:      "vent_created",
		Document:  created,
		Timestamp: time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/vents (newest first, no filters).
func (h *VentHandler) List(w http.ResponseWriter, r *http.Request) {
	vents, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vents")
		return
	}
	writeJSON(w, http.StatusOK, vents)
}

// GetByID handles GET /api/vents/{id}.
func (h *VentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vent, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vent not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load vent")
		return
	}
	writeJSON(w, http.StatusOK, vent)
}

// Update handles PATCH /api/vents/{id}.
func (h *VentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.Patch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vent, err := h.Store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Vent not found")
		case store.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update vent")
		}
		return
	}

	services.Cache.Invalidate(r.Context(), "vents")
	writeJSON(w, http.StatusOK, vent)
}

// Delete handles DELETE /api/vents/{id}.
func (h *VentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Store.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete vent")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Vent not found")
		return
	}
	services.Cache.Invalidate(r.Context(), "vents")
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/vents/stats/summary.
func (h *VentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats models.Stats
	if services.Cache.Get(r.Context(), "vents", &stats) {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	services.Cache.Set(r.Context(), "vents", stats)
	writeJSON(w, http.StatusOK, stats)
}
