package ephemeris

import (
	"context"
	"fmt"
	"time"

	"github.com/solarviz/orbits/internal/cache"
	"github.com/solarviz/orbits/pkg/core"
)

// CachedProvider memoizes Positions lookups of the wrapped provider.
// StateAt is passed through since cached entries carry no velocity.
type CachedProvider struct {
	inner Provider
	cache *cache.PositionCache
}

// Cached wraps p so repeated (planet, instant) queries are answered from c.
func Cached(p Provider, c *cache.PositionCache) *CachedProvider {
	if c == nil {
		c = cache.NewPositionCache()
	}
	return &CachedProvider{inner: p, cache: c}
}

func (c *CachedProvider) Name() string {
	return c.inner.Name()
}

func (c *CachedProvider) Available(p core.Planet) bool {
	return c.inner.Available(p)
}

func (c *CachedProvider) StateAt(p core.Planet, t time.Time) (core.State, error) {
	return c.inner.StateAt(p, t)
}

// Positions only forwards the distinct instants missing from the cache.
func (c *CachedProvider) Positions(ctx context.Context, p core.Planet, times []time.Time) ([]core.Position3D, error) {
	out := make([]core.Position3D, len(times))
	pending := make(map[int64][]int)
	var missing []time.Time
	for i, t := range times {
		if s, ok := c.cache.Get(p, t); ok {
			out[i] = s.Position
			continue
		}
		key := t.UnixNano()
		if _, ok := pending[key]; !ok {
			missing = append(missing, t)
		}
		pending[key] = append(pending[key], i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.inner.Positions(ctx, p, missing)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, &LookupError{
			Planet: p,
			Err:    fmt.Errorf("provider returned %d positions for %d instants", len(fetched), len(missing)),
		}
	}
	for j, t := range missing {
		c.cache.Add(p, t, core.State{Position: fetched[j]})
		for _, i := range pending[t.UnixNano()] {
			out[i] = fetched[j]
		}
	}
	return out, nil
}

// Cache exposes the backing cache for stats.
func (c *CachedProvider) Cache() *cache.PositionCache {
	return c.cache
}
