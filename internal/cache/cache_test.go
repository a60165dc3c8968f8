package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarviz/orbits/pkg/core"
)

func TestPositionCache_NewPositionCache(t *testing.T) {
	c := NewPositionCache()

	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestPositionCache_AddAndGet(t *testing.T) {
	c := NewPositionCache()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	state := core.State{Position: core.Position3D{X: 1, Y: 2, Z: 3}}

	c.Add(core.Earth, at, state)

	got, ok := c.Get(core.Earth, at)
	require.True(t, ok)
	assert.Equal(t, state, got)

	_, ok = c.Get(core.Mars, at)
	assert.False(t, ok)

	_, ok = c.Get(core.Earth, at.Add(time.Second))
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
}

func TestPositionCache_KeyIgnoresLocation(t *testing.T) {
	c := NewPositionCache()
	utc := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("UTC+2", 2*3600))

	c.Add(core.Venus, utc, core.State{Position: core.Position3D{X: 0.7}})

	got, ok := c.Get(core.Venus, local)
	require.True(t, ok)
	assert.InDelta(t, 0.7, got.Position.X, 0)
}

func TestPositionCache_Reset(t *testing.T) {
	c := NewPositionCache()
	at := time.Now()
	c.Add(core.Earth, at, core.State{})
	c.Get(core.Earth, at)

	c.Reset()

	assert.Equal(t, 0, c.Len())
	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestPositionCache_ConcurrentAccess(t *testing.T) {
	c := NewPositionCache()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i, p := range core.Planets {
		wg.Add(1)
		go func(i int, p core.Planet) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				at := base.Add(time.Duration(j) * time.Hour)
				c.Add(p, at, core.State{Position: core.Position3D{X: float64(i)}})
				c.Get(p, at)
			}
		}(i, p)
	}
	wg.Wait()

	assert.Equal(t, len(core.Planets)*100, c.Len())
	hits, _ := c.Stats()
	assert.Equal(t, len(core.Planets)*100, hits)
}

func TestSafeCounter(t *testing.T) {
	var c SafeCounter
	c.Inc()
	c.Inc()
	assert.Equal(t, 2, c.Value())
	c.Set(10)
	assert.Equal(t, 10, c.Value())
}
