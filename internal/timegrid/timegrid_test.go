package timegrid

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, start, end time.Time, steps int) []time.Time {
	t.Helper()
	g, err := New(Config{Start: start, End: end, Steps: steps})
	require.NoError(t, err)
	return g.Generate()
}

func TestGenerate_EndpointsAndCount(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, steps := range []int{2, 3, 10, 365, 1000} {
		grid := mustGrid(t, start, end, steps)
		require.Len(t, grid, steps)
		assert.True(t, grid[0].Equal(start), "first entry must equal start")
		assert.True(t, grid[steps-1].Equal(end), "last entry must equal end")
		for i := 1; i < len(grid); i++ {
			assert.False(t, grid[i].Before(grid[i-1]), "grid must be non-decreasing at %d", i)
		}
	}
}

func TestGenerate_EvenSpacing(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	grid := mustGrid(t, start, start.Add(4*24*time.Hour), 5)

	for i, ts := range grid {
		want := start.Add(time.Duration(i) * 24 * time.Hour)
		assert.WithinDuration(t, want, ts, time.Microsecond)
	}
}

func TestGenerate_SingleStep(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	grid := mustGrid(t, start, start.AddDate(1, 0, 0), 1)

	require.Len(t, grid, 1)
	assert.True(t, grid[0].Equal(start))
}

func TestGenerate_StartEqualsEnd(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	grid := mustGrid(t, start, start, 5)

	require.Len(t, grid, 5)
	for _, ts := range grid {
		assert.True(t, ts.Equal(start))
	}
}

func TestGenerate_StartEqualsEndJulianDate(t *testing.T) {
	at, err := ParseInstant("JD 2460000.3")
	require.NoError(t, err)

	grid := mustGrid(t, at, at, 5)
	require.Len(t, grid, 5)
	for i, ts := range grid {
		assert.True(t, ts.Equal(at), "entry %d: %s != %s", i, ts, at)
	}
}

func TestGenerate_NanosecondPrecision(t *testing.T) {
	start, err := ParseInstant("2024-01-01T00:00:00.123456789")
	require.NoError(t, err)

	grid := mustGrid(t, start, start.Add(4*time.Second), 5)
	for i, ts := range grid {
		assert.True(t, ts.Equal(start.Add(time.Duration(i)*time.Second)), "entry %d: %s", i, ts)
	}
}

func TestGenerate_OneNanosecondSpan(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 100, time.UTC)
	end := start.Add(time.Nanosecond)

	grid := mustGrid(t, start, end, 5)
	require.Len(t, grid, 5)
	assert.True(t, grid[0].Equal(start))
	assert.True(t, grid[4].Equal(end))
	for i := 1; i < len(grid); i++ {
		assert.False(t, grid[i].Before(grid[i-1]), "non-monotone at %d: %s < %s", i, grid[i], grid[i-1])
		assert.False(t, grid[i].Before(start) || grid[i].After(end))
	}
}

func TestGenerate_LongSpan(t *testing.T) {
	// wider than time.Duration can hold
	start := time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2500, 1, 1, 0, 0, 0, 0, time.UTC)
	grid := mustGrid(t, start, end, 11)

	assert.True(t, grid[0].Equal(start))
	assert.True(t, grid[10].Equal(end))
	assert.Equal(t, 1600, grid[1].Year())
	for i := 1; i < len(grid); i++ {
		assert.True(t, grid[i].After(grid[i-1]))
	}
}

func TestGenerate_Backwards(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	grid := mustGrid(t, start, end, 3)

	assert.True(t, grid[0].Equal(start))
	assert.True(t, grid[2].Equal(end))
	assert.True(t, grid[1].Before(start) && grid[1].After(end))
}

func TestNew_InvalidSteps(t *testing.T) {
	for _, steps := range []int{0, -1} {
		_, err := New(Config{Steps: steps})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidSteps))
	}
}

func TestGenerator_ConfigIsUTC(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	g, err := New(Config{Start: time.Date(2024, 1, 1, 1, 0, 0, 0, loc), End: time.Date(2024, 1, 2, 1, 0, 0, 0, loc), Steps: 2})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, g.Config().Start.Location())
	assert.Equal(t, 0, g.Config().Start.Hour())
}

func TestParseInstant(t *testing.T) {
	want := time.Date(2024, 3, 5, 6, 7, 8, 0, time.UTC)
	for _, in := range []string{
		"2024-03-05 06:07:08",
		"2024-03-05T06:07:08",
		"2024-03-05T06:07:08Z",
		"2024-03-05T07:07:08+01:00",
		"2024-03-05 06:07:08.000",
		"2024:065:06:07:08",
	} {
		got, err := ParseInstant(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	day, err := ParseInstant("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), day)
}

func TestParseInstant_JulianDate(t *testing.T) {
	for _, in := range []string{"JD2451545.0", "jd 2451545", "JD 2451545.0"} {
		got, err := ParseInstant(in)
		require.NoError(t, err, in)
		assert.WithinDuration(t, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), got, time.Millisecond)
	}
}

func TestParseInstant_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2024-13-01", "JDabc", "01/02/2024"} {
		_, err := ParseInstant(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidInstant))
	}
}

func TestFormatISO(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	assert.Equal(t, "2024-01-02 03:04:05.006", FormatISO(ts))
}
