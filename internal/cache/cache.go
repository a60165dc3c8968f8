package cache

import (
	"sync"
	"time"

	"github.com/solarviz/orbits/pkg/core"
)

type positionKey struct {
	planet core.Planet
	nanos  int64
}

// PositionCache memoizes ephemeris lookups for one run so repeated instants
// (e.g. a grid whose start equals its end) hit the provider once.
type PositionCache struct {
	mu        sync.RWMutex
	positions map[positionKey]core.State
	hits      SafeCounter
	misses    SafeCounter
}

func NewPositionCache() *PositionCache {
	return &PositionCache{
		positions: make(map[positionKey]core.State),
	}
}

func keyFor(p core.Planet, t time.Time) positionKey {
	return positionKey{planet: p, nanos: t.UTC().UnixNano()}
}

// Get returns the cached state for planet p at t.
func (c *PositionCache) Get(p core.Planet, t time.Time) (core.State, bool) {
	c.mu.RLock()
	s, ok := c.positions[keyFor(p, t)]
	c.mu.RUnlock()
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return s, ok
}

func (c *PositionCache) Add(p core.Planet, t time.Time, s core.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions[keyFor(p, t)] = s
}

func (c *PositionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.positions)
}

// Stats returns the hit and miss counts since the last Reset.
func (c *PositionCache) Stats() (hits, misses int) {
	return c.hits.Value(), c.misses.Value()
}

func (c *PositionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions = make(map[positionKey]core.State)
	c.hits.Set(0)
	c.misses.Set(0)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
