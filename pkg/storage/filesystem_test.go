package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndRead(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("student_report_20260826T120000.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "student_report_20260826T120000.pdf", name)
	assert.True(t, store.Exists(name))

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestLocalStorageSaveCreatesNestedDirectories(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	name, err := store.Save(filepath.Join("2026", "08", "report.csv"), []byte("a,b"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, name), store.Path(name))
	assert.True(t, store.Exists(name))
}

func TestLocalStorageDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("report.csv", []byte("a,b"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(name))
	assert.False(t, store.Exists(name))

	// A second delete of the same file is not an error.
	require.NoError(t, store.Delete(name))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("fresh.pdf", []byte("fresh"))
	require.NoError(t, err)

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(base, "old.pdf"), stale, stale))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)
	assert.False(t, store.Exists("old.pdf"))
	assert.True(t, store.Exists("fresh.pdf"))
}
