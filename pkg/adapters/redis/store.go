package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/pixelwall/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis key holding the grid document.
const DefaultKey = "pixelwall:grid"

// Store implements ports.GridStore using Redis.
// The grid is kept as a single JSON string, the same document the file store writes.
type Store struct {
	client *backend.Client
	key    string
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the key the grid document is stored under.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    DefaultKey,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Key returns the key the grid document is stored under.
func (s *Store) Key() string {
	return s.key
}

// Client returns the underlying Redis client.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) updatedAtKey() string {
	return s.key + ":updated_at"
}

// Save persists the grid document to Redis.
func (s *Store) Save(ctx context.Context, grid domain.Grid) error {
	data, err := domain.EncodeGrid(grid)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key, data, 0)
	pipe.Set(ctx, s.updatedAtKey(), time.Now().UTC().Format(time.RFC3339Nano), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the grid document from Redis.
func (s *Store) Load(ctx context.Context) (domain.Grid, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrGridNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	grid, err := domain.DecodeGrid(val)
	if err != nil {
		return nil, fmt.Errorf("failed to parse grid at %s: %w", s.key, err)
	}
	return grid, nil
}

// UpdatedAt returns the time of the last Save, or the zero time if none happened.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	val, err := s.client.Get(ctx, s.updatedAtKey()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return time.Parse(time.RFC3339Nano, val)
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
