package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to path through a temp file in the same
// directory followed by a rename. The canonical file is never opened for
// in-place writes, so a crash at any point leaves either the old snapshot or
// the new one, never a torn file.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// loadSnapshot reads the canonical snapshot for a collection, initializing it
// to an empty array before the first read. Read failures other than
// non-existence are fatal for the collection.
func loadSnapshot(path string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := writeFileAtomic(path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("initialize %s: %w", path, err)
		}
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}
