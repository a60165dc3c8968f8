package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solarviz/orbits/pkg/core"
)

// ErrOutOfRange is returned when an instant falls outside a provider's validity window.
var ErrOutOfRange = errors.New("instant outside ephemeris range")

// Provider answers heliocentric position queries for the major planets.
type Provider interface {
	Name() string
	Available(p core.Planet) bool
	StateAt(p core.Planet, t time.Time) (core.State, error)
	// Positions returns one vector per entry of times, in the same order.
	Positions(ctx context.Context, p core.Planet, times []time.Time) ([]core.Position3D, error)
}

// LookupError describes a failed position query.
type LookupError struct {
	Planet core.Planet
	Time   time.Time
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("ephemeris lookup for %s at %s: %v", e.Planet, e.Time.UTC().Format(time.RFC3339), e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Mode selects which element table the Standish provider uses.
type Mode string

const (
	ModeLong  Mode = "long"
	ModeShort Mode = "short"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLong, "":
		return ModeLong, nil
	case ModeShort:
		return ModeShort, nil
	}
	return "", fmt.Errorf("unknown ephemeris mode %q (want long or short)", s)
}

// Frame selects the output reference frame.
type Frame string

const (
	FrameEcliptic   Frame = "ecliptic"
	FrameEquatorial Frame = "equatorial"
)

func ParseFrame(s string) (Frame, error) {
	switch Frame(strings.ToLower(strings.TrimSpace(s))) {
	case FrameEquatorial, "":
		return FrameEquatorial, nil
	case FrameEcliptic:
		return FrameEcliptic, nil
	}
	return "", fmt.Errorf("unknown reference frame %q (want equatorial or ecliptic)", s)
}
