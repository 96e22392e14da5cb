package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/pixelwall/pkg/domain"
)

// DefaultPath is the grid document used when no path is configured.
const DefaultPath = "pixels.json"

// rename replaces the destination with the temporary file.
var rename = os.Rename

// Store implements ports.GridStore using a single JSON file on the local filesystem.
type Store struct {
	Path   string
	atomic bool
}

// Option configures a Store.
type Option func(*Store)

// WithAtomicWrites makes Save write to a temporary file and rename it over the
// destination, so a failed write never leaves a truncated document behind.
func WithAtomicWrites() Option {
	return func(s *Store) {
		s.atomic = true
	}
}

// New creates a new Store for the given file path.
// If path is empty, it defaults to "pixels.json" in the working directory.
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{Path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and parses the grid document.
func (s *Store) Load(ctx context.Context) (domain.Grid, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrGridNotFound
		}
		return nil, fmt.Errorf("failed to read grid file: %w", err)
	}

	grid, err := domain.DecodeGrid(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse grid file %s: %w", s.Path, err)
	}
	return grid, nil
}

// Save overwrites the grid document.
func (s *Store) Save(ctx context.Context, grid domain.Grid) error {
	data, err := domain.EncodeGrid(grid)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to ensure grid directory: %w", err)
		}
	}

	if s.atomic {
		return s.writeAtomic(data)
	}

	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write grid file: %w", err)
	}
	return nil
}

// writeAtomic writes to a temporary file first, syncs it, then renames it to the destination.
func (s *Store) writeAtomic(data []byte) error {
	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(filepath.Dir(s.Path), "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// The destination is replaced in place; until rename succeeds the previous
	// document stays readable.
	if err := rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to grid file: %w", err)
	}
	return nil
}
