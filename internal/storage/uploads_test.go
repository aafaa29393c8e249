package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndRemove(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("syllabus.pdf", strings.NewReader("%PDF-1.4 content"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_syllabus.pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(data))

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveUniquePaths(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("notes.txt", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save("notes.txt", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveSanitizesFilename(t *testing.T) {
	dir := t.TempDir()
	store, err := NewUploadStore(dir)
	require.NoError(t, err)

	path, err := store.Save("../../etc/pass wd?.txt", strings.NewReader("x"))
	require.NoError(t, err)

	// Stored inside the upload dir, traversal and odd characters neutralized.
	assert.Equal(t, dir, filepath.Dir(path))
	base := filepath.Base(path)
	assert.NotContains(t, base, "/")
	assert.NotContains(t, base, " ")
	assert.NotContains(t, base, "?")
	assert.True(t, strings.HasSuffix(base, "pass_wd_.txt"))
}

func TestRemoveMissingFileIsNoError(t *testing.T) {
	store, err := NewUploadStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove(filepath.Join(t.TempDir(), "gone.txt")))
	assert.NoError(t, store.Remove(""))
}
