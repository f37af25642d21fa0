package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openheartlab/openheart-backend/internal/models"
	"github.com/openheartlab/openheart-backend/internal/services"
	"github.com/openheartlab/openheart-backend/internal/store"
)

// createDocumentRequest is the body for POST /api/entries and /api/vents.
// Label and confidence are optional; a missing label is filled in by the AI
// collaborator or the documented default.
type createDocumentRequest struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// EntryHandler serves the journal entry collection.
type EntryHandler struct {
	Store      store.Store[models.Entry]
	Classifier services.Classifier
}

func NewEntryHandler(s store.Store[models.Entry], c services.Classifier) *EntryHandler {
	return &EntryHandler{Store: s, Classifier: c}
}

// Create handles POST /api/entries. Classification is resolved before the
// store mutation is enqueued, so a slow provider never blocks the write queue.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
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
			// Fallback when AI is disabled: store with a safe default label
			label = string(models.LabelCalm)
			confidence = 0.0
		}
	}

	entry := models.Entry{Document: models.Document{
		Text:       req.Text,
		Label:      models.Label(label),
		Confidence: confidence,
	}}

	created, err := h.Store.Create(r.Context(), entry)
	if err != nil {
		if store.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	services.Cache.Invalidate(r.Context(), "entries")
	services.Feed.Publish(services.FeedEvent{
		Type:      "entry_created",
		Document:  created,
		Timestamp: time.Now().UTC(),
	})

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/entries with optional label/from/to filters.
// Bounds are inclusive; results stay newest first.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.Filter

	if v := r.URL.Query().Get("label"); v != "" {
		label, err := models.ParseLabel(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Label = &label
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'from' timestamp")
			return
		}
		filter.From = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' timestamp")
			return
		}
		filter.To = &t
	}

	entries, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, store.Apply[models.Entry](entries, filter))
}

// GetByID handles GET /api/entries/{id}.
func (h *EntryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load entry")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Update handles PATCH /api/entries/{id}. Unknown body fields are a caller
// error, not silently ignored.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch models.Patch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.Store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Entry not found")
		case store.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to update entry")
		}
		return
	}

	services.Cache.Invalidate(r.Context(), "entries")
	writeJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.Store.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	services.Cache.Invalidate(r.Context(), "entries")
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/entries/stats.
func (h *EntryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats models.Stats
	if services.Cache.Get(r.Context(), "entries", &stats) {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	services.Cache.Set(r.Context(), "entries", stats)
	writeJSON(w, http.StatusOK, stats)
}

// Classify handles POST /api/entries/classify: classification without
// persisting anything.
func (h *EntryHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text required")
		return
	}

	result, err := h.Classifier.Classify(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "AI unavailable")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseTimeParam accepts RFC 3339 or a bare date (treated as UTC midnight).
func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
