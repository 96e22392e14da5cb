package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/pixelwall/pkg/adapters/file"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/aretw0/pixelwall/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements GridStore
var _ ports.GridStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunGridStoreContract(t, func(t *testing.T) ports.GridStore {
		return file.New(filepath.Join(t.TempDir(), "pixels.json"))
	})
}

func TestFileStore_AtomicContract(t *testing.T) {
	ports.RunGridStoreContract(t, func(t *testing.T) ports.GridStore {
		return file.New(filepath.Join(t.TempDir(), "pixels.json"), file.WithAtomicWrites())
	})
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, "pixels.json", file.New("").Path)
}

func TestFileStore_PersistedLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.json")
	store := file.New(path)

	require.NoError(t, store.Save(context.Background(), domain.Grid{0: "#1a1a2e", 1: "#ff0000"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"0\": \"#1a1a2e\",\n  \"1\": \"#ff0000\"\n}", string(data))
}

func TestFileStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "pixels.json")
	store := file.New(path, file.WithAtomicWrites())

	require.NoError(t, store.Save(context.Background(), domain.Grid{0: "#000"}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStore_AtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(filepath.Join(dir, "pixels.json"), file.WithAtomicWrites())

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(context.Background(), domain.NewDefaultGrid(4, "#000")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pixels.json", entries[0].Name())
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := file.New(path).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptGrid)
	assert.True(t, strings.Contains(err.Error(), path))
}

func TestFileStore_LoadUnreadable(t *testing.T) {
	// A directory in place of the file cannot be read as a document.
	path := t.TempDir()

	_, err := file.New(path).Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrGridNotFound)
}
