package ephemeris

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/errgroup"

	"github.com/solarviz/orbits/pkg/core"
)

// FetchOptions controls FetchAll.
type FetchOptions struct {
	// Workers is the number of planets fetched concurrently. Values <= 1 fetch sequentially.
	Workers int
	// Meter receives lookup counters. Nil uses a no-op meter.
	Meter metric.Meter
}

type fetchInstruments struct {
	lookups metric.Int64Counter
	errors  metric.Int64Counter
}

func newFetchInstruments(m metric.Meter) (fetchInstruments, error) {
	if m == nil {
		m = noop.Meter{}
	}
	lookups, err := m.Int64Counter("ephemeris.lookups",
		metric.WithDescription("Planet position lookups"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return fetchInstruments{}, fmt.Errorf("failed to create lookup counter: %w", err)
	}
	errs, err := m.Int64Counter("ephemeris.lookup_errors",
		metric.WithDescription("Failed planet position lookups"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return fetchInstruments{}, fmt.Errorf("failed to create lookup error counter: %w", err)
	}
	return fetchInstruments{lookups: lookups, errors: errs}, nil
}

// FetchAll queries provider for every planet over times. Each returned series
// is index-aligned with times. The first failure cancels outstanding work and
// is returned as is.
func FetchAll(ctx context.Context, provider Provider, planets []core.Planet, times []time.Time, opts FetchOptions) (core.PositionSeries, error) {
	inst, err := newFetchInstruments(opts.Meter)
	if err != nil {
		return nil, err
	}

	fetchOne := func(ctx context.Context, p core.Planet) ([]core.Position3D, error) {
		attrs := metric.WithAttributes(attribute.String("planet", p.String()))
		inst.lookups.Add(ctx, int64(len(times)), attrs)
		positions, err := provider.Positions(ctx, p, times)
		if err != nil {
			inst.errors.Add(ctx, 1, attrs)
			return nil, err
		}
		if len(positions) != len(times) {
			inst.errors.Add(ctx, 1, attrs)
			return nil, &LookupError{
				Planet: p,
				Err:    fmt.Errorf("provider returned %d positions for %d instants", len(positions), len(times)),
			}
		}
		return positions, nil
	}

	out := make(core.PositionSeries, len(planets))

	if opts.Workers <= 1 {
		for _, p := range planets {
			positions, err := fetchOne(ctx, p)
			if err != nil {
				return nil, err
			}
			out[p] = positions
		}
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, p := range planets {
		g.Go(func() error {
			positions, err := fetchOne(gctx, p)
			if err != nil {
				return err
			}
			mu.Lock()
			out[p] = positions
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
