// Package gormstorage persists runs through GORM. It is shared by the SQLite
// and Postgres backends, which only differ in how the connection is opened.
package gormstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/solarviz/orbits/internal/model"
	"github.com/solarviz/orbits/internal/model/convert"
	"github.com/solarviz/orbits/internal/render"
	"github.com/solarviz/orbits/pkg/core"
)

const batchSize = 1000

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Backend writes runs, samples and paths in a single transaction.
type Backend struct {
	deps      Dependencies
	lastRunID uint
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init migrates the export schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("database not connected")
	}
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close is a no-op; the connection belongs to the caller.
func (b *Backend) Close() error {
	return nil
}

// RunID returns the primary key of the last exported run.
func (b *Backend) RunID() uint {
	return b.lastRunID
}

// Export stores run. The figure is not persisted.
func (b *Backend) Export(ctx context.Context, run *core.Run, _ *render.Figure) error {
	if b.deps.DB == nil {
		return fmt.Errorf("database not connected")
	}
	if run == nil {
		return fmt.Errorf("nil run")
	}
	if err := run.Validate(); err != nil {
		return err
	}

	header, err := convert.CoreToRun(run)
	if err != nil {
		return err
	}

	start := time.Now()
	var samples, paths int
	err = b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		sampleRows, err := convert.CoreToSamples(header.ID, run)
		if err != nil {
			return err
		}
		if len(sampleRows) > 0 {
			if err := tx.CreateInBatches(&sampleRows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert samples: %w", err)
			}
		}
		samples = len(sampleRows)

		pathRows := convert.CoreToPaths(header.ID, run)
		if len(pathRows) > 0 {
			if err := tx.CreateInBatches(&pathRows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert paths: %w", err)
			}
		}
		paths = len(pathRows)
		return nil
	})
	if err != nil {
		return err
	}

	b.lastRunID = header.ID
	b.deps.Logger.Info().
		Uint("runId", header.ID).
		Int("samples", samples).
		Int("paths", paths).
		Dur("duration", time.Since(start)).
		Msg("Run exported")
	return nil
}
