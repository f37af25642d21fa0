package models

import "fmt"

// Entry represents a journal entry in the mood tracker.
type Entry struct {
	Document `bson:",inline"`
}

// ApplyPatch shallow-merges a partial update onto the entry. Entries carry no
// summary, so patching one is a validation error rather than a silent drop.
func (e *Entry) ApplyPatch(p Patch) error {
	if p.Summary != nil {
		return fmt.Errorf("entries do not have a summary field")
	}
	return e.applyPatch(p)
}
