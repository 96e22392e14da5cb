package ports

import (
	"context"
	"testing"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunGridStoreContract runs a suite of tests to verify that a GridStore implementation
// adheres to the defined interface contract. newStore must return an empty store.
func RunGridStoreContract(t *testing.T, newStore func(t *testing.T) GridStore) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrGridNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		store := newStore(t)
		grid := domain.NewDefaultGrid(domain.DefaultSize, domain.DefaultColor)
		grid[5] = "#ff0000"

		err := store.Save(ctx, grid)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, grid, loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		store := newStore(t)

		require.NoError(t, store.Save(ctx, domain.NewDefaultGrid(4, "#000")))
		require.NoError(t, store.Save(ctx, domain.Grid{0: "#fff"}))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Grid{0: "#fff"}, loaded)
	})

	t.Run("Loaded Grid Is Detached", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, domain.NewDefaultGrid(4, "#000")))

		first, err := store.Load(ctx)
		require.NoError(t, err)
		first[0] = "#mutated"

		second, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "#000", second[0], "mutating a loaded grid must not reach the store")
	})
}
