package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	// Empty store has no session.
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save("sess-abc"))

	id, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "sess-abc", id)
}

func TestFileStoreSaveReplaces(t *testing.T) {
	store := NewFileStore(t.TempDir())

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	id, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", id)
}

func TestFileStoreClearIdempotent(t *testing.T) {
	store := NewFileStore(t.TempDir())

	// Clearing an empty store is not an error.
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save("sess"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	store := NewFileStore(dir)

	require.NoError(t, store.Save("sess"))
	assert.Equal(t, filepath.Join(dir, "session"), store.Path())
}

func TestFileStorePermissions(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save("sess"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreBlankFileMeansNoSession(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte("\n"), 0600))

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}
