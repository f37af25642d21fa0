package store

import (
	"time"

	"github.com/openheartlab/openheart-backend/internal/models"
)

// Filter is a conjunction of optional predicates. All bounds are inclusive;
// a zero Filter matches everything.
type Filter struct {
	Label *models.Label
	From  *time.Time
	To    *time.Time
}

// Apply returns the documents matching every set predicate, preserving the
// order of the input (newest first stays newest first).
func Apply[T any, PT Record[T]](docs []T, f Filter) []T {
	out := make([]T, 0, len(docs))
	for i := range docs {
		p := PT(&docs[i])
		if f.Label != nil && p.GetLabel() != *f.Label {
			continue
		}
		if f.From != nil && p.GetCreatedAt().Before(*f.From) {
			continue
		}
		if f.To != nil && p.GetCreatedAt().After(*f.To) {
			continue
		}
		out = append(out, docs[i])
	}
	return out
}
