package store

import (
	"context"
	"errors"
	"time"

	"github.com/openheartlab/openheart-backend/internal/models"
)

// ErrNotFound is returned by Get and Update for an unknown id. Remove treats
// an unknown id as "nothing changed" instead.
var ErrNotFound = errors.New("document not found")

// ValidationError marks input the store refused. Invalid input is never
// persisted and, on create, never even enqueued.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Record is the pointer contract a stored document type must satisfy.
// *models.Entry and *models.Vent implement it.
type Record[T any] interface {
	*T
	GetID() string
	SetID(id string)
	GetLabel() models.Label
	GetConfidence() float64
	GetCreatedAt() time.Time
	Stamp(now time.Time)
	Validate() error
	ApplyPatch(p models.Patch) error
}

// Store is the backend-neutral contract shared by the file store and the
// Mongo store. Lists are newest-first; ids are opaque strings on every
// backend; Remove of a missing id reports (false, nil).
type Store[T any] interface {
	Create(ctx context.Context, doc T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, patch models.Patch) (T, error)
	Remove(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]T, error)
	Stats(ctx context.Context) (models.Stats, error)
}
