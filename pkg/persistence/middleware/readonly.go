package middleware

import (
	"context"
	"errors"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/aretw0/pixelwall/pkg/ports"
)

// ErrReadOnly is returned by Save on a read-only store.
var ErrReadOnly = errors.New("store is read-only")

type readOnlyMiddleware struct {
	next ports.GridStore
}

// NewReadOnlyMiddleware rejects every Save. Loads pass through.
func NewReadOnlyMiddleware() Middleware {
	return func(next ports.GridStore) ports.GridStore {
		return &readOnlyMiddleware{next: next}
	}
}

func (m *readOnlyMiddleware) Load(ctx context.Context) (domain.Grid, error) {
	return m.next.Load(ctx)
}

func (m *readOnlyMiddleware) Save(ctx context.Context, grid domain.Grid) error {
	return ErrReadOnly
}
