package core

import (
	"fmt"
	"time"
)

// Settings records how a run was produced.
type Settings struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Steps         int       `json:"steps"`
	EphemerisName string    `json:"ephemeris"`
	Frame         string    `json:"frame"`
}

// Run holds everything computed in one invocation. Nothing in it outlives the process.
type Run struct {
	Settings  Settings
	Times     []time.Time
	Positions PositionSeries
	Distances DistanceSeries
}

// Planets returns the planets in the run in rendering order.
func (r *Run) Planets() []Planet {
	return r.Positions.Ordered()
}

// Validate checks that every series is aligned with the time grid.
func (r *Run) Validate() error {
	n := len(r.Times)
	if n == 0 {
		return fmt.Errorf("run has an empty time grid")
	}
	for p, series := range r.Positions {
		if len(series) != n {
			return fmt.Errorf("position series for %s has %d entries, want %d", p, len(series), n)
		}
		d, ok := r.Distances[p]
		if !ok {
			return fmt.Errorf("missing distance series for %s", p)
		}
		if len(d) != n {
			return fmt.Errorf("distance series for %s has %d entries, want %d", p, len(d), n)
		}
	}
	return nil
}
