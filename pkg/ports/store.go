package ports

import (
	"context"

	"github.com/aretw0/pixelwall/pkg/domain"
)

// GridStore defines the interface for the durable store holding the grid.
// The grid is always read and written as a whole document.
type GridStore interface {
	// Load retrieves the persisted grid.
	// Returns domain.ErrGridNotFound if nothing has been persisted yet, and an error
	// wrapping domain.ErrCorruptGrid if the document cannot be parsed.
	Load(ctx context.Context) (domain.Grid, error)

	// Save overwrites the persisted grid.
	Save(ctx context.Context, grid domain.Grid) error
}
