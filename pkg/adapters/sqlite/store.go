// Package sqlite provides a SQLite-backed grid store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/pixelwall/pkg/domain"
	_ "modernc.org/sqlite"
)

// DefaultName is the row the grid document is stored under.
const DefaultName = "default"

const schema = `CREATE TABLE IF NOT EXISTS grids (
	name       TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists the grid document in SQLite, one row per named grid.
type Store struct {
	sqlDB *sql.DB
	name  string
}

// Option configures a Store.
type Option func(*Store)

// WithName selects the row the grid is stored under.
func WithName(name string) Option {
	return func(s *Store) {
		if name = strings.TrimSpace(name); name != "" {
			s.name = name
		}
	}
}

// Open opens a SQLite grid store and creates its table if needed.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create grids table: %w", err)
	}

	s := &Store{sqlDB: sqlDB, name: DefaultName}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the stored grid.
func (s *Store) Load(ctx context.Context) (domain.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var doc string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT doc FROM grids WHERE name = ?`, s.name).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGridNotFound
		}
		return nil, fmt.Errorf("get grid: %w", err)
	}

	grid, err := domain.DecodeGrid([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("parse grid %q: %w", s.name, err)
	}
	return grid, nil
}

// Save upserts the grid document.
func (s *Store) Save(ctx context.Context, grid domain.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	data, err := domain.EncodeGrid(grid)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO grids (name, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		s.name,
		string(data),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save grid: %w", err)
	}
	return nil
}
