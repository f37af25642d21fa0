package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openheartlab/openheart-backend/internal/models"
	"github.com/openheartlab/openheart-backend/internal/services"
)

func decodeVent(t *testing.T, rec *httptest.ResponseRecorder) models.Vent {
	t.Helper()
	var v models.Vent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreateVentWithSummary(t *testing.T) {
	srv := newTestServer(t, &stubClassifier{
		configured: true,
		result:     services.Classification{Label: models.LabelAngry, Confidence: 0.77},
		summary:    "They vented about work.",
	})

	rec := doJSON(t, srv, http.MethodPost, "/api/vents", map[string]interface{}{"text": "work was awful today"})

	require.Equal(t, http.StatusCreated, rec.Code)
	v := decodeVent(t, rec)
	assert.Equal(t, models.LabelAngry, v.Label)
	assert.Equal(t, 0.77, v.Confidence)
	assert.Equal(t, "They vented about work.", v.Summary)
}

func TestCreateVentSummaryIsBestEffort(t *testing.T) {
	srv := newTestServer(t, &stubClassifier{
		configured: true,
		result:     services.Classification{Label: models.LabelSad, Confidence: 0.5},
		summaryErr: errors.New("summarizer down"),
	})

	rec := doJSON(t, srv, http.MethodPost, "/api/vents", map[string]interface{}{"text": "long story"})

	require.Equal(t, http.StatusCreated, rec.Code, "a failed summary must not fail the create")
	v := decodeVent(t, rec)
	assert.Equal(t, models.LabelSad, v.Label)
	assert.Empty(t, v.Summary)
}

func TestCreateVentRequiresText(t *testing.T) {
	srv := newTestServer(t, &stubClassifier{})

	rec := doJSON(t, srv, http.MethodPost, "/api/vents", map[string]interface{}{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVentLifecycle(t *testing.T) {
	srv := newTestServer(t, &stubClassifier{})

	created := decodeVent(t, doJSON(t, srv, http.MethodPost, "/api/vents", map[string]interface{}{
		"text": "needed to get this out", "label": "Worried", "confidence": 0.6,
	}))
	require.NotEmpty(t, created.ID)

	rec := doJSON(t, srv, http.MethodGet, "/api/vents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.Vent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)

	summary := "They felt better afterwards."
	rec = doJSON(t, srv, http.MethodPatch, "/api/vents/"+created.ID, map[string]interface{}{"summary": summary})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, summary, decodeVent(t, rec).Summary)

	rec = doJSON(t, srv, http.MethodGet, "/api/vents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, summary, decodeVent(t, rec).Summary)

	rec = doJSON(t, srv, http.MethodDelete, "/api/vents/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/vents/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVentStatsSummary(t *testing.T) {
	srv := newTestServer(t, &stubClassifier{})

	for _, v := range []map[string]interface{}{
		{"text": "a", "label": "Calm", "confidence": 0.9},
		{"text": "b", "label": "Calm", "confidence": 0.7},
	} {
		require.Equal(t, http.StatusCreated, doJSON(t, srv, http.MethodPost, "/api/vents", v).Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/vents/stats/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.CountsByLabel[models.LabelCalm])
	assert.Equal(t, 0.8, stats.AvgConfidenceByLabel[models.LabelCalm])
}
