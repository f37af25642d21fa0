package models

import (
	"fmt"
	"strings"
	"time"
)

// Document is the base shape shared by both collections. The id is an opaque
// string for every backend; the Mongo store writes it as _id directly.
type Document struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Text       string    `bson:"text" json:"text"`
	Label      Label     `bson:"label" json:"label"`
	Confidence float64   `bson:"confidence" json:"confidence"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left untouched; Summary is only
// accepted by vents.
type Patch struct {
	Text       *string  `json:"text"`
	Label      *string  `json:"label"`
	Confidence *float64 `json:"confidence"`
	Summary    *string  `json:"summary"`
}

func (d *Document) GetID() string           { return d.ID }
func (d *Document) SetID(id string)         { d.ID = id }
func (d *Document) GetLabel() Label         { return d.Label }
func (d *Document) GetConfidence() float64  { return d.Confidence }
func (d *Document) GetCreatedAt() time.Time { return d.CreatedAt }

// Stamp sets updatedAt, and createdAt too on first call.
func (d *Document) Stamp(now time.Time) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}

// Validate checks the invariants every stored document must hold and clamps
// confidence into [0, 1]. Runs before every persist.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return fmt.Errorf("text is required")
	}
	label, err := ParseLabel(string(d.Label))
	if err != nil {
		return err
	}
	d.Label = label
	d.Confidence = ClampConfidence(d.Confidence)
	return nil
}

// applyPatch merges the base fields of a patch. Summary handling is left to
// the concrete document type.
func (d *Document) applyPatch(p Patch) error {
	if p.Text != nil {
		d.Text = *p.Text
	}
	if p.Label != nil {
		label, err := ParseLabel(*p.Label)
		if err != nil {
			return err
		}
		d.Label = label
	}
	if p.Confidence != nil {
		d.Confidence = ClampConfidence(*p.Confidence)
	}
	return nil
}
