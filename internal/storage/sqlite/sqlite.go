// Package sqlitestorage exports runs to a SQLite file. Rows are written to a
// private in-memory database and copied to disk with VACUUM INTO.
package sqlitestorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/solarviz/orbits/internal/database"
	"github.com/solarviz/orbits/internal/render"
	"github.com/solarviz/orbits/internal/storage/file"
	gormstorage "github.com/solarviz/orbits/internal/storage/gorm"
	"github.com/solarviz/orbits/pkg/core"
)

var memorySeq atomic.Uint64

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path      string // target file; derived from the run when empty
	OutputDir string
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	manager  *database.Manager
	cfg      Config
	lastPath string
}

// New creates a new SQLite storage backend.
func New(cfg Config, log zerolog.Logger) (*Backend, error) {
	manager := database.NewManager(log)
	name := fmt.Sprintf("orbits_export_%d_%d", os.Getpid(), memorySeq.Add(1))
	if err := manager.ConnectSqlite(database.MemoryDSN(name)); err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:     manager.DB,
			Logger: log,
		}),
		manager: manager,
		cfg:     cfg,
	}, nil
}

// Close releases the in-memory database.
func (b *Backend) Close() error {
	if err := b.Backend.Close(); err != nil {
		return err
	}
	return b.manager.Close()
}

// Export writes run to the in-memory database and dumps it to disk.
func (b *Backend) Export(ctx context.Context, run *core.Run, fig *render.Figure) error {
	if err := b.Backend.Export(ctx, run, fig); err != nil {
		return err
	}

	path := b.cfg.Path
	if path == "" {
		path = filepath.Join(b.cfg.OutputDir, file.BaseName(run)+".db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := b.manager.DumpMemoryToDisk(path); err != nil {
		return err
	}
	b.lastPath = path
	return nil
}

// ExportedPath returns the path of the last dumped database file.
func (b *Backend) ExportedPath() string {
	return b.lastPath
}
