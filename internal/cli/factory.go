package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/pixelwall/internal/config"
	"github.com/aretw0/pixelwall/internal/logging"
	"github.com/aretw0/pixelwall/internal/metrics"
	"github.com/aretw0/pixelwall/pkg/adapters/file"
	"github.com/aretw0/pixelwall/pkg/adapters/memory"
	"github.com/aretw0/pixelwall/pkg/adapters/redis"
	"github.com/aretw0/pixelwall/pkg/adapters/sqlite"
	"github.com/aretw0/pixelwall/pkg/canvas"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/aretw0/pixelwall/pkg/persistence/middleware"
	"github.com/aretw0/pixelwall/pkg/ports"
)

// CloseFunc releases the resources held by a wall built with NewWall.
type CloseFunc func() error

// NewLogger builds the application logger from the log section of the config.
func NewLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, cfg.Format), nil
}

// NewWall initializes a Grid Store with standard CLI conventions: the configured
// backend, locking mode and size, plus the given logger and hooks.
func NewWall(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*canvas.Canvas, CloseFunc, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	// 1. Store
	store, rstore, closer, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	mws := []middleware.Middleware{middleware.NewTimeoutMiddleware(cfg.Store.Timeout)}
	if cfg.Store.ReadOnly {
		mws = append(mws, middleware.NewReadOnlyMiddleware())
	}
	store = middleware.Chain(store, mws...)

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		hooks = metrics.Chain(hooks, createDebugHooks(logger))
	}

	opts := []canvas.Option{
		canvas.WithSize(cfg.Size),
		canvas.WithDefaultColor(cfg.DefaultColor),
		canvas.WithLogger(logger),
		canvas.WithHooks(hooks),
	}

	// 2. Locking
	switch strings.ToLower(cfg.Locking) {
	case config.LockLocal:
		opts = append(opts, canvas.WithLocalLock())
	case config.LockRedis:
		// The lock shares the store's connection and is keyed by its document key.
		if rstore == nil {
			rstore = newRedisStore(cfg.Store.Redis)
			closers = append(closers, rstore.Close)
		}
		locker := redis.NewLocker(rstore.Client(), "")
		opts = append(opts, canvas.WithLocker(locker, rstore.Key(), canvas.DefaultLockTTL))
	}

	// 3. Initialize
	wall, err := canvas.New(store, opts...)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("error initializing grid store: %w", err)
	}

	logger.Debug("Grid store ready",
		"backend", cfg.Store.Backend,
		"locking", cfg.Locking,
		"size", cfg.Size,
	)
	return wall, closeAll, nil
}

// openStore returns the configured store and, for the redis backend, the redis
// store itself so the locker can share its connection.
func openStore(cfg config.Config) (ports.GridStore, *redis.Store, func() error, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case config.BackendMemory:
		return memory.NewStore(), nil, nil, nil
	case config.BackendFile:
		var opts []file.Option
		if cfg.Store.AtomicWrites {
			opts = append(opts, file.WithAtomicWrites())
		}
		return file.New(cfg.StorePath(), opts...), nil, nil, nil
	case config.BackendSQLite:
		var opts []sqlite.Option
		if cfg.Store.Name != "" {
			opts = append(opts, sqlite.WithName(cfg.Store.Name))
		}
		store, err := sqlite.Open(cfg.StorePath(), opts...)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		return store, nil, store.Close, nil
	case config.BackendRedis:
		store := newRedisStore(cfg.Store.Redis)
		return store, store, store.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newRedisStore(cfg config.RedisConfig) *redis.Store {
	return redis.New(cfg.Addr, cfg.Password, cfg.DB, redis.WithKey(cfg.Key))
}

// createDebugHooks traces Grid Store events at debug level.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.GridEvent) {
			logger.Debug("Grid loaded", "type", e.Type, "cells", e.Cells)
		},
		OnFallback: func(ctx context.Context, e *domain.GridEvent) {
			logger.Debug("Grid fallback", "cells", e.Cells, "err", e.Err)
		},
		OnReject: func(ctx context.Context, e *domain.CellEvent) {
			logger.Debug("Update rejected", "err", e.Err)
		},
		OnStoreCall: func(ctx context.Context, e *domain.StoreEvent) {
			logger.Debug("Store call", "op", e.Op, "duration", e.Duration, "err", e.Err)
		},
	}
}
