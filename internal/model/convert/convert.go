// Package convert provides functions to convert between core runs and GORM models
package convert

import (
	"encoding/json"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/solarviz/orbits/internal/geo"
	"github.com/solarviz/orbits/internal/model"
	"github.com/solarviz/orbits/pkg/core"
)

// CoreToRun converts the run header. Settings are kept verbatim as JSON.
func CoreToRun(r *core.Run) (model.Run, error) {
	settings, err := json.Marshal(r.Settings)
	if err != nil {
		return model.Run{}, fmt.Errorf("failed to encode run settings: %w", err)
	}
	return model.Run{
		StartTime:     r.Settings.Start,
		EndTime:       r.Settings.End,
		Steps:         len(r.Times),
		EphemerisName: r.Settings.EphemerisName,
		Frame:         r.Settings.Frame,
		Settings:      datatypes.JSON(settings),
	}, nil
}

// CoreToSamples converts every (planet, step) pair into a sample row for runID.
func CoreToSamples(runID uint, r *core.Run) ([]model.PlanetSample, error) {
	planets := r.Planets()
	out := make([]model.PlanetSample, 0, len(planets)*len(r.Times))
	for _, p := range planets {
		positions := r.Positions[p]
		distances := r.Distances[p]
		for i, t := range r.Times {
			pos := positions[i]
			pt, err := geo.PointZ(pos)
			if err != nil {
				return nil, fmt.Errorf("%s step %d: %w", p, i, err)
			}
			out = append(out, model.PlanetSample{
				RunID:      runID,
				Planet:     p.String(),
				Step:       i,
				Time:       t,
				X:          pos.X,
				Y:          pos.Y,
				Z:          pos.Z,
				DistanceAU: distances[i],
				Position:   pt,
			})
		}
	}
	return out, nil
}

// CoreToPaths converts each planet's trajectory into a path row for runID.
// Paths without two distinct points (single-step or stationary runs) get an empty line string.
func CoreToPaths(runID uint, r *core.Run) []model.PlanetPath {
	planets := r.Planets()
	out := make([]model.PlanetPath, 0, len(planets))
	for _, p := range planets {
		positions := r.Positions[p]
		ls, err := geo.PathLineString(positions)
		if err != nil {
			ls = geom.LineString{}
		}
		minD, maxD := math.Inf(1), math.Inf(-1)
		for _, d := range r.Distances[p] {
			minD = math.Min(minD, d)
			maxD = math.Max(maxD, d)
		}
		if len(r.Distances[p]) == 0 {
			minD, maxD = 0, 0
		}
		out = append(out, model.PlanetPath{
			RunID:    runID,
			Planet:   p.String(),
			Points:   len(positions),
			LengthAU: geo.PathLength(positions),
			MinAU:    minD,
			MaxAU:    maxD,
			Path:     ls,
		})
	}
	return out
}

// RunSettings decodes the stored settings of a run row.
func RunSettings(r model.Run) (core.Settings, error) {
	var s core.Settings
	if len(r.Settings) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(r.Settings, &s); err != nil {
		return core.Settings{}, fmt.Errorf("failed to decode run settings: %w", err)
	}
	return s, nil
}
