package memory

import (
	"context"
	"sync"

	"github.com/aretw0/pixelwall/pkg/domain"
)

// Store implements ports.GridStore in memory.
// Safe for concurrent use. Nothing survives a restart.
type Store struct {
	grid domain.Grid
	mu   sync.RWMutex
}

// NewStore creates a new, empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Save replaces the stored grid with a copy of grid.
func (s *Store) Save(ctx context.Context, grid domain.Grid) error {
	// Copy to ensure isolation, similar to serialization
	copied := grid.Clone()
	if copied == nil {
		copied = domain.Grid{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = copied
	return nil
}

// Load returns a copy of the stored grid.
func (s *Store) Load(ctx context.Context) (domain.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.grid == nil {
		return nil, domain.ErrGridNotFound
	}
	return s.grid.Clone(), nil
}
