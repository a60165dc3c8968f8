package core

import "math"

// Position3D is a Cartesian vector in astronomical units.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the Euclidean norm of the vector.
func (p Position3D) Magnitude() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Sub returns p - o.
func (p Position3D) Sub(o Position3D) Position3D {
	return Position3D{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

// Scale returns p multiplied by f.
func (p Position3D) Scale(f float64) Position3D {
	return Position3D{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// IsFinite reports whether all three components are finite.
func (p Position3D) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// State is a position (AU) and velocity (AU/day) pair at one instant.
type State struct {
	Position Position3D `json:"position"`
	Velocity Position3D `json:"velocity"`
}

// PositionSeries maps each planet to its positions, index-aligned with the time grid.
type PositionSeries map[Planet][]Position3D

// DistanceSeries maps each planet to its distances from the origin, index-aligned with the time grid.
type DistanceSeries map[Planet][]float64

// Ordered returns the planets present in s, in the fixed Planets order.
func (s PositionSeries) Ordered() []Planet {
	out := make([]Planet, 0, len(s))
	for _, p := range Planets {
		if _, ok := s[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
