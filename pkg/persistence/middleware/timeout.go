package middleware

import (
	"context"
	"time"

	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/aretw0/pixelwall/pkg/ports"
)

type timeoutMiddleware struct {
	next    ports.GridStore
	timeout time.Duration
}

// NewTimeoutMiddleware bounds every Load and Save by d.
// A non-positive d leaves the store unchanged.
func NewTimeoutMiddleware(d time.Duration) Middleware {
	return func(next ports.GridStore) ports.GridStore {
		if d <= 0 {
			return next
		}
		return &timeoutMiddleware{next: next, timeout: d}
	}
}

func (m *timeoutMiddleware) Load(ctx context.Context) (domain.Grid, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.Load(ctx)
}

func (m *timeoutMiddleware) Save(ctx context.Context, grid domain.Grid) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.next.Save(ctx, grid)
}
