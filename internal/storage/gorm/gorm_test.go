package gormstorage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/solarviz/orbits/internal/database"
	"github.com/solarviz/orbits/internal/model"
	"github.com/solarviz/orbits/internal/model/convert"
	"github.com/solarviz/orbits/pkg/core"
)

func testRun(steps int) *core.Run {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	run := &core.Run{
		Settings: core.Settings{
			Start:         start,
			End:           start.Add(time.Duration(steps-1) * time.Hour),
			Steps:         steps,
			EphemerisName: "test",
			Frame:         "ecliptic",
		},
		Positions: core.PositionSeries{},
		Distances: core.DistanceSeries{},
	}
	for i := 0; i < steps; i++ {
		run.Times = append(run.Times, start.Add(time.Duration(i)*time.Hour))
	}
	for k, p := range []core.Planet{core.Mars, core.Earth} {
		r := float64(k + 1)
		for i := 0; i < steps; i++ {
			pos := core.Position3D{X: r, Y: float64(i), Z: 0.5}
			run.Positions[p] = append(run.Positions[p], pos)
			run.Distances[p] = append(run.Distances[p], pos.Magnitude())
		}
	}
	return run
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.GetSqliteDB(database.MemoryDSN(name))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestInit_NoDB(t *testing.T) {
	b := New(Dependencies{Logger: zerolog.Nop()})
	require.Error(t, b.Init())
	require.Error(t, b.Export(context.Background(), testRun(2), nil))
}

func TestExport_WritesRunSamplesAndPaths(t *testing.T) {
	db := newTestDB(t)
	b := New(Dependencies{DB: db, Logger: zerolog.Nop()})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })

	run := testRun(3)
	require.NoError(t, b.Export(context.Background(), run, nil))
	require.NotZero(t, b.RunID())

	var runs []model.Run
	require.NoError(t, db.Find(&runs).Error)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Steps)
	assert.Equal(t, "ecliptic", runs[0].Frame)
	assert.True(t, runs[0].StartTime.Equal(run.Settings.Start))

	settings, err := convert.RunSettings(runs[0])
	require.NoError(t, err)
	assert.Equal(t, "test", settings.EphemerisName)

	var sampleCount, pathCount int64
	require.NoError(t, db.Model(&model.PlanetSample{}).Count(&sampleCount).Error)
	require.NoError(t, db.Model(&model.PlanetPath{}).Count(&pathCount).Error)
	assert.Equal(t, int64(6), sampleCount)
	assert.Equal(t, int64(2), pathCount)

	var samples []model.PlanetSample
	require.NoError(t, db.Where("run_id = ? AND planet = ?", runs[0].ID, core.Mars.String()).Order("step").Find(&samples).Error)
	require.Len(t, samples, 3)
	assert.Equal(t, run.Positions[core.Mars], samplePositions(t, samples))

	var paths []model.PlanetPath
	require.NoError(t, db.Where("planet = ?", core.Earth.String()).Find(&paths).Error)
	require.Len(t, paths, 1)
	assert.Equal(t, 3, paths[0].Points)
	assert.InDelta(t, 2.0, paths[0].LengthAU, 1e-9)
}

func TestExport_InvalidRun(t *testing.T) {
	db := newTestDB(t)
	b := New(Dependencies{DB: db, Logger: zerolog.Nop()})
	require.NoError(t, b.Init())

	run := testRun(3)
	run.Distances[core.Earth] = run.Distances[core.Earth][:1]
	require.Error(t, b.Export(context.Background(), run, nil))

	var count int64
	require.NoError(t, db.Model(&model.Run{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExport_MultipleRuns(t *testing.T) {
	db := newTestDB(t)
	b := New(Dependencies{DB: db, Logger: zerolog.Nop()})
	require.NoError(t, b.Init())

	require.NoError(t, b.Export(context.Background(), testRun(2), nil))
	first := b.RunID()
	require.NoError(t, b.Export(context.Background(), testRun(2), nil))
	assert.Greater(t, b.RunID(), first)
}

// samplePositions reads the stored WKB points back as positions.
func samplePositions(t *testing.T, samples []model.PlanetSample) []core.Position3D {
	t.Helper()
	out := make([]core.Position3D, len(samples))
	for i, s := range samples {
		c, ok := s.Position.Coordinates()
		require.True(t, ok, "sample %d has an empty point", i)
		out[i] = core.Position3D{X: c.X, Y: c.Y, Z: c.Z}
	}
	return out
}
