package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomicLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, writeFileAtomic(path, []byte(`[1,2,3]`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(raw))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestWriteFileAtomicReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	require.NoError(t, writeFileAtomic(path, []byte(`["a long first snapshot"]`)))
	require.NoError(t, writeFileAtomic(path, []byte(`[]`)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw), "no remnant of the longer previous snapshot")
}

func TestLoadSnapshotInitializesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snap.json")

	raw, err := loadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(onDisk))
}

func TestLoadSnapshotReturnsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x"}]`), 0o644))

	raw, err := loadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(raw))
}
