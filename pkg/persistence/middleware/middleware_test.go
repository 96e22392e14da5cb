package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pixelwall/pkg/adapters/memory"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/aretw0/pixelwall/pkg/persistence/middleware"
	"github.com/aretw0/pixelwall/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore blocks until ctx is done.
type slowStore struct{}

func (slowStore) Load(ctx context.Context) (domain.Grid, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowStore) Save(ctx context.Context, grid domain.Grid) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestTimeoutMiddleware_Contract(t *testing.T) {
	ports.RunGridStoreContract(t, func(t *testing.T) ports.GridStore {
		return middleware.NewTimeoutMiddleware(time.Second)(memory.NewStore())
	})
}

func TestTimeoutMiddleware_BoundsCalls(t *testing.T) {
	store := middleware.NewTimeoutMiddleware(20 * time.Millisecond)(slowStore{})
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = store.Save(ctx, domain.Grid{0: "#fff"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeoutMiddleware_ZeroIsPassThrough(t *testing.T) {
	inner := memory.NewStore()
	assert.Same(t, inner, middleware.NewTimeoutMiddleware(0)(inner))
}

func TestReadOnlyMiddleware(t *testing.T) {
	inner := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, inner.Save(ctx, domain.Grid{0: "#fff"}))

	store := middleware.NewReadOnlyMiddleware()(inner)

	err := store.Save(ctx, domain.Grid{0: "#000"})
	assert.ErrorIs(t, err, middleware.ErrReadOnly)

	grid, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#fff", grid[0])
}

func TestChain_Order(t *testing.T) {
	var calls []string
	trace := func(name string) middleware.Middleware {
		return func(next ports.GridStore) ports.GridStore {
			return tracingStore{name: name, next: next, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), trace("outer"), trace("inner"))
	require.NoError(t, store.Save(context.Background(), domain.Grid{}))

	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type tracingStore struct {
	name  string
	next  ports.GridStore
	calls *[]string
}

func (s tracingStore) Load(ctx context.Context) (domain.Grid, error) {
	*s.calls = append(*s.calls, s.name)
	return s.next.Load(ctx)
}

func (s tracingStore) Save(ctx context.Context, grid domain.Grid) error {
	*s.calls = append(*s.calls, s.name)
	return s.next.Save(ctx, grid)
}
