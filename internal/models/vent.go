package models

// Vent represents a free-form vent. Summary is derived best-effort by the AI
// collaborator and may be empty.
type Vent struct {
	Document `bson:",inline"`
	Summary  string `bson:"summary,omitempty" json:"summary,omitempty"`
}

// ApplyPatch shallow-merges a partial update onto the vent.
func (v *Vent) ApplyPatch(p Patch) error {
	if err := v.applyPatch(p); err != nil {
		return err
	}
	if p.Summary != nil {
		v.Summary = *p.Summary
	}
	return nil
}
