package geo

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/solarviz/orbits/pkg/core"
)

// Geometry columns hold heliocentric AU coordinates with no SRID. They are
// stored as WKB so SQLite and Postgres read them back through the same Scan.

// ErrTooFewPoints is returned when a path has fewer than two positions.
var ErrTooFewPoints = errors.New("path needs at least 2 points")

// PointZ converts a position into a 3D point.
func PointZ(p core.Position3D) (geom.Point, error) {
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Z:    p.Z,
		Type: geom.DimXYZ,
	})
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to build point: %w", err)
	}
	return pt, nil
}

// PathLineString builds a 3D line string through positions in order.
func PathLineString(positions []core.Position3D) (geom.LineString, error) {
	if len(positions) < 2 {
		return geom.LineString{}, fmt.Errorf("%w, got %d", ErrTooFewPoints, len(positions))
	}
	flat := make([]float64, 0, len(positions)*3)
	for i, p := range positions {
		if !p.IsFinite() {
			return geom.LineString{}, fmt.Errorf("position %d is not finite", i)
		}
		flat = append(flat, p.X, p.Y, p.Z)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXYZ))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("failed to build path: %w", err)
	}
	return ls, nil
}

// PathLength returns the 3D polyline length through positions, in AU.
func PathLength(positions []core.Position3D) float64 {
	var total float64
	for i := 1; i < len(positions); i++ {
		d := positions[i].Sub(positions[i-1])
		total += math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	}
	return total
}
