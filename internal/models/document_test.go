package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNormalizesAndClamps(t *testing.T) {
	d := Document{Text: "fine day", Label: "happy", Confidence: 1.2}
	require.NoError(t, d.Validate())
	assert.Equal(t, LabelHappy, d.Label)
	assert.Equal(t, 1.0, d.Confidence)

	empty := Document{Text: "  ", Label: "Happy"}
	assert.Error(t, empty.Validate())

	bad := Document{Text: "x", Label: "Furious"}
	assert.Error(t, bad.Validate())
}

func TestStampSetsCreatedOnlyOnce(t *testing.T) {
	var d Document
	first := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	d.Stamp(first)
	assert.True(t, d.CreatedAt.Equal(first))
	assert.True(t, d.UpdatedAt.Equal(first))

	later := first.Add(time.Hour)
	d.Stamp(later)
	assert.True(t, d.CreatedAt.Equal(first), "createdAt never changes")
	assert.True(t, d.UpdatedAt.Equal(later))
}

func TestEntryRejectsSummaryPatch(t *testing.T) {
	e := Entry{Document: Document{Text: "x", Label: LabelSad, Confidence: 0.4}}
	summary := "nope"
	assert.Error(t, e.ApplyPatch(Patch{Summary: &summary}))

	text := "patched"
	require.NoError(t, e.ApplyPatch(Patch{Text: &text}))
	assert.Equal(t, "patched", e.Text)
}

func TestVentPatchMergesAllFields(t *testing.T) {
	v := Vent{Document: Document{Text: "story", Label: LabelAngry, Confidence: 0.9}}

	label := "calm"
	confidence := 0.2
	summary := "They calmed down."
	require.NoError(t, v.ApplyPatch(Patch{Label: &label, Confidence: &confidence, Summary: &summary}))

	assert.Equal(t, "story", v.Text, "unpatched fields stay put")
	assert.Equal(t, LabelCalm, v.Label)
	assert.Equal(t, 0.2, v.Confidence)
	assert.Equal(t, summary, v.Summary)
}
