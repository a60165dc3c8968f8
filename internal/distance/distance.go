// Package distance turns position series into heliocentric distance series.
package distance

import (
	"errors"
	"fmt"
	"math"

	"github.com/solarviz/orbits/pkg/core"
)

var (
	ErrShapeMismatch = errors.New("position series lengths differ")
	ErrNonFinite     = errors.New("position has a non-finite component")
)

// Norm returns the Euclidean norm of p.
func Norm(p core.Position3D) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Calculate returns the distance from the origin of every position, keyed and
// ordered like positions. All series must have the same length.
func Calculate(positions core.PositionSeries) (core.DistanceSeries, error) {
	want := -1
	var first core.Planet
	for _, p := range positions.Ordered() {
		n := len(positions[p])
		if want < 0 {
			want, first = n, p
			continue
		}
		if n != want {
			return nil, fmt.Errorf("%w: %s has %d, %s has %d", ErrShapeMismatch, first, want, p, n)
		}
	}
	if len(positions.Ordered()) != len(positions) {
		return nil, fmt.Errorf("%w: %d series for unrecognized planets", core.ErrUnknownPlanet, len(positions)-len(positions.Ordered()))
	}

	out := make(core.DistanceSeries, len(positions))
	for p, series := range positions {
		d := make([]float64, len(series))
		for i, pos := range series {
			if !pos.IsFinite() {
				return nil, fmt.Errorf("%w: %s[%d] = %+v", ErrNonFinite, p, i, pos)
			}
			d[i] = Norm(pos)
		}
		out[p] = d
	}
	return out, nil
}
