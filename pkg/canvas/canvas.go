package canvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/pixelwall/internal/logging"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/aretw0/pixelwall/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held if its owner dies.
const DefaultLockTTL = 10 * time.Second

// Canvas is the Grid Store: durable, validated access to the cell-color mapping.
//
// Every Load and Update goes to the durable store; nothing is cached between calls.
// Without WithLocalLock or WithLocker, concurrent Updates race: two interleaved
// load-modify-save sequences may lose one of the writes.
type Canvas struct {
	store        ports.GridStore
	size         int
	defaultColor string

	logger *slog.Logger
	hooks  domain.LifecycleHooks

	serialize bool
	mu        sync.Mutex

	locker  ports.DistributedLocker
	lockKey string
	lockTTL time.Duration
}

// Option configures the Canvas.
type Option func(*Canvas)

// WithSize sets the number of cells (default 400).
func WithSize(n int) Option {
	return func(c *Canvas) {
		c.size = n
	}
}

// WithDefaultColor sets the color of a freshly created grid.
func WithDefaultColor(color string) Option {
	return func(c *Canvas) {
		c.defaultColor = color
	}
}

// WithLogger configures a logger for the Canvas.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Canvas) {
		c.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Canvas) {
		c.hooks = hooks
	}
}

// WithLocalLock serializes Updates within this process.
func WithLocalLock() Option {
	return func(c *Canvas) {
		c.serialize = true
	}
}

// WithLocker serializes Updates across processes sharing the same store.
// It implies WithLocalLock.
func WithLocker(locker ports.DistributedLocker, key string, ttl time.Duration) Option {
	return func(c *Canvas) {
		c.locker = locker
		c.lockKey = key
		c.lockTTL = ttl
		c.serialize = true
	}
}

// New creates a Canvas backed by store.
func New(store ports.GridStore, opts ...Option) (*Canvas, error) {
	c := &Canvas{
		store:        store,
		size:         domain.DefaultSize,
		defaultColor: domain.DefaultColor,
		logger:       logging.NewNop(),
		lockKey:      "grid",
		lockTTL:      DefaultLockTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	if store == nil {
		return nil, fmt.Errorf("grid store is required")
	}
	if c.size <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %d", c.size)
	}
	if c.lockTTL <= 0 {
		c.lockTTL = DefaultLockTTL
	}
	return c, nil
}

// Size returns the number of cells.
func (c *Canvas) Size() int {
	return c.size
}

// DefaultColor returns the color of a freshly created grid.
func (c *Canvas) DefaultColor() string {
	return c.defaultColor
}

// Load returns the current grid. It never fails.
//
// If nothing is stored yet, the default grid is persisted and returned. If the
// stored document cannot be read, a default grid is returned in memory only and
// the stored document is left untouched.
func (c *Canvas) Load(ctx context.Context) domain.Grid {
	grid, err := c.loadStore(ctx)
	if err == nil {
		err = grid.CheckBounds(c.size)
	}

	switch {
	case err == nil:
		c.fireLoad(ctx, domain.EventGridLoaded, len(grid))
		return grid

	case errors.Is(err, domain.ErrGridNotFound):
		grid = domain.NewDefaultGrid(c.size, c.defaultColor)
		if err := c.Save(ctx, grid); err != nil {
			c.logger.Error("Failed to persist default grid", "err", err)
		} else {
			c.logger.Info("Created default grid", "size", c.size, "color", c.defaultColor)
		}
		c.fireLoad(ctx, domain.EventGridCreated, len(grid))
		return grid

	default:
		c.logger.Warn("Grid store unreadable, serving default grid", "err", err)
		grid = domain.NewDefaultGrid(c.size, c.defaultColor)
		if c.hooks.OnFallback != nil {
			c.hooks.OnFallback(ctx, &domain.GridEvent{
				EventBase: newBase(domain.EventLoadFallback),
				Cells:     len(grid),
				Err:       err,
			})
		}
		return grid
	}
}

// Save overwrites the durable store with grid.
// Failures wrap domain.ErrStorageUnavailable.
func (c *Canvas) Save(ctx context.Context, grid domain.Grid) error {
	start := time.Now()
	err := c.store.Save(ctx, grid)
	c.fireStore(ctx, "save", start, err)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Update validates req and, if valid, sets one cell and persists the whole grid.
// Validation failures are returned as *domain.ValidationError and leave the store untouched.
func (c *Canvas) Update(ctx context.Context, req domain.UpdateRequest) error {
	upd, err := req.Validate(c.size)
	if err != nil {
		c.logger.Debug("Update rejected", "id", req.ID, "err", err)
		if c.hooks.OnReject != nil {
			c.hooks.OnReject(ctx, &domain.CellEvent{
				EventBase: newBase(domain.EventUpdateRejected),
				CellID:    -1,
				Err:       err,
			})
		}
		return err
	}

	err = c.withLock(ctx, func(ctx context.Context) error {
		grid := c.Load(ctx)
		grid[upd.ID] = upd.Color
		return c.Save(ctx, grid)
	})
	if err != nil {
		c.logger.Error("Update failed", "id", upd.ID, "err", err)
		return err
	}

	c.logger.Debug("Cell updated", "id", upd.ID, "color", upd.Color)
	if c.hooks.OnUpdate != nil {
		c.hooks.OnUpdate(ctx, &domain.CellEvent{
			EventBase: newBase(domain.EventCellUpdated),
			CellID:    upd.ID,
			Color:     upd.Color,
		})
	}
	return nil
}

// Ensure persists the default grid if nothing is stored yet. It never overwrites an
// existing document, even an unreadable one. It reports whether the grid was created.
func (c *Canvas) Ensure(ctx context.Context) (bool, error) {
	created := false
	err := c.withLock(ctx, func(ctx context.Context) error {
		grid, err := c.loadStore(ctx)
		switch {
		case err == nil:
			if err := grid.CheckBounds(c.size); err != nil {
				c.logger.Warn("Stored grid does not match configured size", "size", c.size, "err", err)
			}
			return nil
		case errors.Is(err, domain.ErrGridNotFound):
			if err := c.Save(ctx, domain.NewDefaultGrid(c.size, c.defaultColor)); err != nil {
				return err
			}
			created = true
			c.logger.Info("Created default grid", "size", c.size, "color", c.defaultColor)
			return nil
		default:
			c.logger.Warn("Grid store unreadable, leaving it untouched", "err", err)
			return nil
		}
	})
	return created, err
}

func (c *Canvas) loadStore(ctx context.Context) (domain.Grid, error) {
	start := time.Now()
	grid, err := c.store.Load(ctx)
	if errors.Is(err, domain.ErrGridNotFound) {
		c.fireStore(ctx, "load", start, nil)
	} else {
		c.fireStore(ctx, "load", start, err)
	}
	return grid, err
}

// withLock executes fn while holding the configured locks. Without locking options it
// simply calls fn.
func (c *Canvas) withLock(ctx context.Context, fn func(context.Context) error) error {
	if !c.serialize {
		return fn(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.locker != nil {
		unlock, err := c.locker.Lock(ctx, c.lockKey, c.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				c.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", c.lockKey,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (c *Canvas) fireLoad(ctx context.Context, typ domain.EventType, cells int) {
	if c.hooks.OnLoad == nil {
		return
	}
	c.hooks.OnLoad(ctx, &domain.GridEvent{EventBase: newBase(typ), Cells: cells})
}

func (c *Canvas) fireStore(ctx context.Context, op string, start time.Time, err error) {
	if c.hooks.OnStoreCall == nil {
		return
	}
	c.hooks.OnStoreCall(ctx, &domain.StoreEvent{
		EventBase: newBase(domain.EventStoreCall),
		Op:        op,
		Duration:  time.Since(start),
		Err:       err,
	})
}

func newBase(typ domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: typ}
}
