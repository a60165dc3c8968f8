package sqlitestorage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarviz/orbits/internal/database"
	"github.com/solarviz/orbits/internal/model"
	"github.com/solarviz/orbits/pkg/core"
)

func testRun() *core.Run {
	start := time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)
	run := &core.Run{
		Settings:  core.Settings{Start: start, End: start.Add(48 * time.Hour), Steps: 3},
		Positions: core.PositionSeries{},
		Distances: core.DistanceSeries{},
	}
	for i := 0; i < 3; i++ {
		run.Times = append(run.Times, start.Add(time.Duration(i)*24*time.Hour))
		pos := core.Position3D{X: 5.2, Y: float64(i) * 0.01}
		run.Positions[core.Jupiter] = append(run.Positions[core.Jupiter], pos)
		run.Distances[core.Jupiter] = append(run.Distances[core.Jupiter], pos.Magnitude())
	}
	return run
}

func countRows(t *testing.T, path string, value any) int64 {
	t.Helper()
	db, err := database.GetSqliteDB(path)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}

func TestExport_DumpsToDerivedPath(t *testing.T) {
	dir := t.TempDir()

	b, err := New(Config{OutputDir: dir}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })

	require.NoError(t, b.Export(context.Background(), testRun(), nil))

	want := filepath.Join(dir, "orbits_19900601_000000_19900603_000000.db")
	assert.Equal(t, want, b.ExportedPath())
	assert.FileExists(t, want)
	assert.Equal(t, int64(1), countRows(t, want, &model.Run{}))
	assert.Equal(t, int64(3), countRows(t, want, &model.PlanetSample{}))
	assert.Equal(t, int64(1), countRows(t, want, &model.PlanetPath{}))
}

func TestExport_OverwritesConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	b, err := New(Config{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })

	require.NoError(t, b.Export(context.Background(), testRun(), nil))
	require.NoError(t, b.Export(context.Background(), testRun(), nil))

	// the second dump replaces the first and holds both runs
	assert.Equal(t, int64(2), countRows(t, path, &model.Run{}))
}

func TestNew_SeparateMemoryDatabases(t *testing.T) {
	a, err := New(Config{OutputDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	defer a.Close()
	b, err := New(Config{OutputDir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Init())
	require.NoError(t, b.Init())
	require.NoError(t, a.Export(context.Background(), testRun(), nil))

	var n int64
	require.NoError(t, b.manager.DB.Model(&model.Run{}).Count(&n).Error)
	assert.Zero(t, n)
}
