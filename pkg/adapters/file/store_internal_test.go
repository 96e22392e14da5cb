package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicSave_FailedRenameKeepsPreviousGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.json")
	store := New(path, WithAtomicWrites())
	ctx := context.Background()

	painted := domain.NewDefaultGrid(4, domain.DefaultColor)
	painted[2] = "#ff0000"
	require.NoError(t, store.Save(ctx, painted))

	rename = func(oldpath, newpath string) error {
		return errors.New("disk detached")
	}
	t.Cleanup(func() { rename = os.Rename })

	err := store.Save(ctx, domain.NewDefaultGrid(4, "#000000"))
	require.Error(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err, "previous document must survive a failed save")
	assert.Equal(t, painted, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be cleaned up")
}

func TestAtomicSave_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixels.json")
	store := New(path, WithAtomicWrites())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Grid{0: "#111"}))
	require.NoError(t, store.Save(ctx, domain.Grid{0: "#222"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{0: "#222"}, loaded)
}
