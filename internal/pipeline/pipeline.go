// Package pipeline runs one orbit computation: time grid, ephemeris
// lookups and distances.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/solarviz/orbits/internal/distance"
	"github.com/solarviz/orbits/internal/ephemeris"
	"github.com/solarviz/orbits/internal/timegrid"
	"github.com/solarviz/orbits/pkg/core"
)

// Stage names reported to the Recorder.
const (
	StageTimeGrid  = "timegrid"
	StageEphemeris = "ephemeris"
	StageDistance  = "distance"
)

// Recorder receives stage timings.
type Recorder interface {
	RecordStage(ctx context.Context, stage string, elapsed time.Duration, tags map[string]string) error
}

// NoopRecorder discards all timings.
type NoopRecorder struct{}

func (NoopRecorder) RecordStage(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

// Dependencies holds all dependencies for the pipeline manager
type Dependencies struct {
	Provider ephemeris.Provider
	Logger   *slog.Logger
	Recorder Recorder
	Meter    metric.Meter
	// Workers is the number of planets fetched concurrently.
	Workers int
	// Planets defaults to core.Planets.
	Planets []core.Planet
	// Frame is recorded in the run settings.
	Frame string
}

// Manager runs orbit computations.
type Manager struct {
	deps Dependencies
}

func NewManager(deps Dependencies) (*Manager, error) {
	if deps.Provider == nil {
		return nil, errors.New("pipeline requires an ephemeris provider")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = NoopRecorder{}
	}
	if len(deps.Planets) == 0 {
		deps.Planets = core.Planets
	}
	return &Manager{deps: deps}, nil
}

// Run computes positions and distances for every planet over the grid.
func (m *Manager) Run(ctx context.Context, gen *timegrid.Generator) (*core.Run, error) {
	if gen == nil {
		return nil, errors.New("nil time grid")
	}
	cfg := gen.Config()
	log := m.deps.Logger.With(
		"start", timegrid.FormatISO(cfg.Start),
		"end", timegrid.FormatISO(cfg.End),
		"steps", cfg.Steps,
	)

	began := time.Now()
	times := gen.Generate()
	m.stageDone(ctx, log, StageTimeGrid, began)

	began = time.Now()
	positions, err := ephemeris.FetchAll(ctx, m.deps.Provider, m.deps.Planets, times, ephemeris.FetchOptions{
		Workers: m.deps.Workers,
		Meter:   m.deps.Meter,
	})
	if err != nil {
		log.Error("Ephemeris lookup failed", "error", err)
		return nil, fmt.Errorf("fetch positions: %w", err)
	}
	m.stageDone(ctx, log, StageEphemeris, began)

	began = time.Now()
	distances, err := distance.Calculate(positions)
	if err != nil {
		log.Error("Distance calculation failed", "error", err)
		return nil, fmt.Errorf("calculate distances: %w", err)
	}
	m.stageDone(ctx, log, StageDistance, began)

	run := &core.Run{
		Settings: core.Settings{
			Start:         cfg.Start,
			End:           cfg.End,
			Steps:         cfg.Steps,
			EphemerisName: m.deps.Provider.Name(),
			Frame:         m.deps.Frame,
		},
		Times:     times,
		Positions: positions,
		Distances: distances,
	}
	if err := run.Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent run: %w", err)
	}

	log.Info("Run computed", "planets", len(positions), "ephemeris", run.Settings.EphemerisName)
	return run, nil
}

func (m *Manager) stageDone(ctx context.Context, log *slog.Logger, stage string, began time.Time) {
	elapsed := time.Since(began)
	log.Debug("Stage finished", "stage", stage, "elapsed", elapsed)
	if err := m.deps.Recorder.RecordStage(ctx, stage, elapsed, map[string]string{
		"ephemeris": m.deps.Provider.Name(),
	}); err != nil {
		log.Warn("Failed to record stage timing", "stage", stage, "error", err)
	}
}
