package ephemeris

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarviz/orbits/internal/cache"
	"github.com/solarviz/orbits/pkg/core"
)

// countingProvider wraps a provider and counts Positions calls and instants.
type countingProvider struct {
	Provider
	calls    atomic.Int64
	instants atomic.Int64
	fail     core.Planet
	short    bool
}

func (c *countingProvider) Positions(ctx context.Context, p core.Planet, times []time.Time) ([]core.Position3D, error) {
	c.calls.Add(1)
	c.instants.Add(int64(len(times)))
	if p == c.fail {
		return nil, &LookupError{Planet: p, Err: errors.New("boom")}
	}
	out, err := c.Provider.Positions(ctx, p, times)
	if err != nil {
		return nil, err
	}
	if c.short && len(out) > 0 {
		return out[:len(out)-1], nil
	}
	return out, nil
}

func gridTimes(n int) []time.Time {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * 24 * time.Hour)
	}
	return out
}

func TestFetchAll_Sequential(t *testing.T) {
	s := newLong(t, FrameEquatorial)
	times := gridTimes(10)

	series, err := FetchAll(context.Background(), s, core.Planets, times, FetchOptions{})
	require.NoError(t, err)

	require.Len(t, series, len(core.Planets))
	for _, p := range core.Planets {
		require.Len(t, series[p], len(times), p)
		for _, pos := range series[p] {
			assert.True(t, pos.IsFinite())
		}
	}
}

func TestFetchAll_ParallelMatchesSequential(t *testing.T) {
	s := newLong(t, FrameEquatorial)
	times := gridTimes(25)

	seq, err := FetchAll(context.Background(), s, core.Planets, times, FetchOptions{Workers: 1})
	require.NoError(t, err)
	par, err := FetchAll(context.Background(), s, core.Planets, times, FetchOptions{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, seq, par)
	assert.Equal(t, core.Planets, par.Ordered())
}

func TestFetchAll_PropagatesLookupError(t *testing.T) {
	for _, workers := range []int{0, 3} {
		cp := &countingProvider{Provider: newLong(t, FrameEquatorial), fail: core.Mars}

		series, err := FetchAll(context.Background(), cp, core.Planets, gridTimes(3), FetchOptions{Workers: workers})
		require.Error(t, err, workers)
		assert.Nil(t, series)

		var lookupErr *LookupError
		require.ErrorAs(t, err, &lookupErr)
		assert.Equal(t, core.Mars, lookupErr.Planet)
	}
}

func TestFetchAll_SequentialStopsAtFirstError(t *testing.T) {
	cp := &countingProvider{Provider: newLong(t, FrameEquatorial), fail: core.Venus}

	_, err := FetchAll(context.Background(), cp, core.Planets, gridTimes(3), FetchOptions{})
	require.Error(t, err)
	assert.Equal(t, int64(2), cp.calls.Load())
}

func TestFetchAll_UnknownPlanet(t *testing.T) {
	s := newLong(t, FrameEquatorial)

	_, err := FetchAll(context.Background(), s, []core.Planet{core.Earth, "vulcan"}, gridTimes(2), FetchOptions{Workers: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownPlanet)
}

func TestFetchAll_ShortSeriesIsRejected(t *testing.T) {
	cp := &countingProvider{Provider: newLong(t, FrameEquatorial), short: true}

	_, err := FetchAll(context.Background(), cp, []core.Planet{core.Earth}, gridTimes(4), FetchOptions{})
	require.Error(t, err)
	var lookupErr *LookupError
	assert.ErrorAs(t, err, &lookupErr)
}

func TestCached_DeduplicatesInstants(t *testing.T) {
	cp := &countingProvider{Provider: newLong(t, FrameEquatorial)}
	c := cache.NewPositionCache()
	cached := Cached(cp, c)

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{at, at, at, at, at}

	positions, err := cached.Positions(context.Background(), core.Jupiter, times)
	require.NoError(t, err)
	require.Len(t, positions, 5)
	for _, p := range positions {
		assert.Equal(t, positions[0], p)
	}
	assert.Equal(t, int64(1), cp.instants.Load())
	assert.Equal(t, 1, c.Len())

	again, err := cached.Positions(context.Background(), core.Jupiter, times[:2])
	require.NoError(t, err)
	assert.Equal(t, positions[:2], again)
	assert.Equal(t, int64(1), cp.calls.Load())
}

func TestCached_MatchesUncached(t *testing.T) {
	s := newLong(t, FrameEcliptic)
	cached := Cached(s, nil)
	times := gridTimes(6)

	want, err := s.Positions(context.Background(), core.Neptune, times)
	require.NoError(t, err)
	got, err := cached.Positions(context.Background(), core.Neptune, times)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, s.Name(), cached.Name())
	assert.True(t, cached.Available(core.Neptune))
	assert.Equal(t, len(times), cached.Cache().Len())
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	cp := &countingProvider{Provider: newLong(t, FrameEquatorial), fail: core.Uranus}
	cached := Cached(cp, nil)

	_, err := cached.Positions(context.Background(), core.Uranus, gridTimes(2))
	require.Error(t, err)
	assert.Equal(t, 0, cached.Cache().Len())
}
