package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	store := NewFileStore(dir)

	require.NoError(t, store.Set(context.Background(), "pm_academy_study_tasks", `[]`))

	contents, err := os.ReadFile(filepath.Join(dir, "pm_academy_study_tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(contents))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestFileStore_ReadError(t *testing.T) {
	dir := t.TempDir()
	// a directory where the blob file should be makes ReadFile fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pm_academy_progress.json"), 0755))

	_, _, err := NewFileStore(dir).Get(context.Background(), "pm_academy_progress")
	assert.Error(t, err)
}
