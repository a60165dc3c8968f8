package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/solarviz/orbits/pkg/core"
)

const (
	deg = math.Pi / 180

	// J2000 mean obliquity of the ecliptic.
	obliquityJ2000 = 23.43928 * deg

	// Half-width of the velocity finite difference, in days.
	velocityStep = 0.01

	keplerTolerance = 1e-6
	keplerMaxIter   = 50
)

// UTC Julian date windows of the two element tables, both ends inclusive.
const (
	shortFirstJD = 2378496.5 // 1800-01-01
	shortLastJD  = 2469807.5 // 2050-01-01
	longFirstJD  = 625673.5  // 3000-01-01 BC
	longLastJD   = 2816787.5 // 3000-01-01 AD
)

// Standish computes planet positions from JPL mean Keplerian elements.
// Positions are heliocentric in AU; the Earth entry is the Earth-Moon barycenter.
type Standish struct {
	mode  Mode
	frame Frame
}

func NewStandish(mode Mode, frame Frame) (*Standish, error) {
	if mode != ModeLong && mode != ModeShort {
		return nil, fmt.Errorf("unknown ephemeris mode %q", mode)
	}
	if frame != FrameEquatorial && frame != FrameEcliptic {
		return nil, fmt.Errorf("unknown reference frame %q", frame)
	}
	return &Standish{mode: mode, frame: frame}, nil
}

func (s *Standish) Name() string {
	return fmt.Sprintf("standish-%s/%s", s.mode, s.frame)
}

func (s *Standish) Mode() Mode {
	return s.mode
}

func (s *Standish) Frame() Frame {
	return s.frame
}

func (s *Standish) Available(p core.Planet) bool {
	_, ok := s.table()[p]
	return ok
}

// StateAt returns position (AU) and velocity (AU/day) of p at t. Next to a
// table edge the velocity falls back to a one-sided difference.
func (s *Standish) StateAt(p core.Planet, t time.Time) (core.State, error) {
	pos, err := s.lookup(p, t)
	if err != nil {
		return core.State{}, &LookupError{Planet: p, Time: t, Err: err}
	}

	jd, utc := tdbJD(t), utcJD(t)
	lo, hi := jd-velocityStep, jd+velocityStep
	if !s.inRange(utc - velocityStep) {
		lo = jd
	}
	if !s.inRange(utc + velocityStep) {
		hi = jd
	}
	before, err := s.positionJD(p, lo)
	if err != nil {
		return core.State{}, &LookupError{Planet: p, Time: t, Err: err}
	}
	after, err := s.positionJD(p, hi)
	if err != nil {
		return core.State{}, &LookupError{Planet: p, Time: t, Err: err}
	}
	return core.State{
		Position: pos,
		Velocity: after.Sub(before).Scale(1 / (hi - lo)),
	}, nil
}

func (s *Standish) Positions(ctx context.Context, p core.Planet, times []time.Time) ([]core.Position3D, error) {
	out := make([]core.Position3D, len(times))
	for i, t := range times {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pos, err := s.lookup(p, t)
		if err != nil {
			return nil, &LookupError{Planet: p, Time: t, Err: err}
		}
		out[i] = pos
	}
	return out, nil
}

func (s *Standish) table() map[core.Planet]meanElements {
	if s.mode == ModeShort {
		return shortTable
	}
	return longTable
}

func (s *Standish) inRange(jd float64) bool {
	if s.mode == ModeShort {
		return jd >= shortFirstJD && jd <= shortLastJD
	}
	return jd >= longFirstJD && jd <= longLastJD
}

// lookup checks the table window against t's UTC date, then evaluates the
// elements at t's TDB date.
func (s *Standish) lookup(p core.Planet, t time.Time) (core.Position3D, error) {
	if !s.Available(p) {
		return core.Position3D{}, fmt.Errorf("%w: %q", core.ErrUnknownPlanet, string(p))
	}
	if !s.inRange(utcJD(t)) {
		return core.Position3D{}, ErrOutOfRange
	}
	return s.positionJD(p, tdbJD(t))
}

func (s *Standish) positionJD(p core.Planet, jd float64) (core.Position3D, error) {
	el, ok := s.table()[p]
	if !ok {
		return core.Position3D{}, fmt.Errorf("%w: %q", core.ErrUnknownPlanet, string(p))
	}

	tCen := centuries(jd)
	a := el.A.at(tCen)
	e := el.E.at(tCen)
	inc := el.I.at(tCen)
	meanLong := el.L.at(tCen)
	longPeri := el.LongPeri.at(tCen)
	node := el.LongNode.at(tCen)

	meanAnomaly := meanLong - longPeri
	if s.mode == ModeLong {
		if c, ok := longCorrections[p]; ok {
			ft := c.F * tCen * deg
			meanAnomaly += c.B*tCen*tCen + c.C*math.Cos(ft) + c.S*math.Sin(ft)
		}
	}
	argPeri := longPeri - node

	ecc := eccentricAnomaly(normalizeDegrees(meanAnomaly), e)

	// Position in the orbital plane, perihelion along +x.
	xp := a * (math.Cos(ecc*deg) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc*deg)

	sw, cw := math.Sincos(argPeri * deg)
	sn, cn := math.Sincos(node * deg)
	si, ci := math.Sincos(inc * deg)

	ecl := core.Position3D{
		X: (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp,
		Y: (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp,
		Z: (sw*si)*xp + (cw*si)*yp,
	}
	if s.frame == FrameEcliptic {
		return ecl, nil
	}
	return eclipticToEquatorial(ecl), nil
}

// eccentricAnomaly solves Kepler's equation M = E - e sin E by Newton
// iteration. Angles are in degrees.
func eccentricAnomaly(meanAnomaly, e float64) float64 {
	eStar := e / deg
	ecc := meanAnomaly + eStar*math.Sin(meanAnomaly*deg)
	for i := 0; i < keplerMaxIter; i++ {
		dM := meanAnomaly - (ecc - eStar*math.Sin(ecc*deg))
		dE := dM / (1 - e*math.Cos(ecc*deg))
		ecc += dE
		if math.Abs(dE) <= keplerTolerance {
			break
		}
	}
	return ecc
}

// normalizeDegrees maps an angle into [-180, 180).
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

func eclipticToEquatorial(p core.Position3D) core.Position3D {
	se, ce := math.Sincos(obliquityJ2000)
	return core.Position3D{
		X: p.X,
		Y: ce*p.Y - se*p.Z,
		Z: se*p.Y + ce*p.Z,
	}
}
