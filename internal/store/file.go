package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openheartlab/openheart-backend/internal/models"
)

// FileStore keeps one collection in memory and persists the full snapshot to
// a single JSON file after every mutation. Mutations run one at a time through
// the collection's write queue; reads never touch the queue and see the last
// committed snapshot. A failed persist leaves both the file and the in-memory
// view exactly as they were.
type FileStore[T any, PT Record[T]] struct {
	path  string
	queue *writeQueue

	mu   sync.RWMutex
	docs []T // newest first
}

// NewFileStore loads the collection at path, creating an empty snapshot on
// first use. A snapshot that exists but cannot be parsed is a fatal error:
// refusing to start beats silently treating user data as an empty collection.
func NewFileStore[T any, PT Record[T]](path string) (*FileStore[T, PT], error) {
	raw, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	var docs []T
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupt: %w", path, err)
	}
	return &FileStore[T, PT]{
		path:  path,
		queue: newWriteQueue(),
		docs:  docs,
	}, nil
}

// Close drains pending mutations and stops the write queue.
func (s *FileStore[T, PT]) Close() {
	s.queue.Close()
}

// Create validates the document, assigns a fresh id and timestamps, prepends
// it (newest first) and persists. Invalid documents are never enqueued.
func (s *FileStore[T, PT]) Create(ctx context.Context, doc T) (T, error) {
	var zero T
	p := PT(&doc)
	if err := p.Validate(); err != nil {
		return zero, &ValidationError{Reason: err.Error()}
	}
	p.SetID(uuid.NewString())
	p.Stamp(time.Now().UTC())

	err := s.queue.Do(func() error {
		next := make([]T, 0, len(s.docs)+1)
		next = append(next, doc)
		next = append(next, s.docs...)
		if err := s.persist(next); err != nil {
			return err
		}
		s.commit(next)
		return nil
	})
	if err != nil {
		return zero, err
	}
	return doc, nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *FileStore[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.docs {
		if PT(&s.docs[i]).GetID() == id {
			return s.docs[i], nil
		}
	}
	return zero, ErrNotFound
}

// Update shallow-merges patch onto the existing document, re-validates the
// merged result, bumps updatedAt and persists. The stored document is only
// replaced once the persist has succeeded.
func (s *FileStore[T, PT]) Update(ctx context.Context, id string, patch models.Patch) (T, error) {
	var out T
	err := s.queue.Do(func() error {
		i := s.indexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		doc := s.docs[i]
		p := PT(&doc)
		if err := p.ApplyPatch(patch); err != nil {
			return &ValidationError{Reason: err.Error()}
		}
		if err := p.Validate(); err != nil {
			return &ValidationError{Reason: err.Error()}
		}
		p.Stamp(time.Now().UTC())

		next := make([]T, len(s.docs))
		copy(next, s.docs)
		next[i] = doc
		if err := s.persist(next); err != nil {
			return err
		}
		s.commit(next)
		out = doc
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Remove deletes the document with the given id. Removing an unknown id is
// "nothing changed", not an error, and persists nothing.
func (s *FileStore[T, PT]) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.queue.Do(func() error {
		i := s.indexOf(id)
		if i < 0 {
			return nil
		}
		next := make([]T, 0, len(s.docs)-1)
		next = append(next, s.docs[:i]...)
		next = append(next, s.docs[i+1:]...)
		if err := s.persist(next); err != nil {
			return err
		}
		s.commit(next)
		removed = true
		return nil
	})
	return removed, err
}

// List returns the full collection, newest first.
func (s *FileStore[T, PT]) List(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// Stats aggregates the collection in a single pass.
func (s *FileStore[T, PT]) Stats(ctx context.Context) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Aggregate[T, PT](s.docs), nil
}

// indexOf runs on the queue goroutine, which is the only writer, so it reads
// s.docs without the lock.
func (s *FileStore[T, PT]) indexOf(id string) int {
	for i := range s.docs {
		if PT(&s.docs[i]).GetID() == id {
			return i
		}
	}
	return -1
}

func (s *FileStore[T, PT]) persist(docs []T) error {
	data := []byte("[]")
	if len(docs) > 0 {
		var err error
		data, err = json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("persist %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore[T, PT]) commit(docs []T) {
	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
}
