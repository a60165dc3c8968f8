// Package timegrid builds the evenly spaced instants the orbit plot is sampled at.
package timegrid

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

var (
	// ErrInvalidInstant is returned when an instant string matches none of the accepted formats.
	ErrInvalidInstant = errors.New("invalid instant")

	// ErrInvalidSteps is returned when the step count is not positive.
	ErrInvalidSteps = errors.New("step count must be at least 1")
)

// ISOLayout is the human-readable timestamp used for slider labels.
const ISOLayout = "2006-01-02 15:04:05.000"

// Config describes a time grid.
type Config struct {
	Start time.Time
	End   time.Time
	Steps int
}

// Generator produces the grid for a fixed Config. It is never mutated after New.
type Generator struct {
	cfg Config
}

// New validates cfg and returns a Generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSteps, cfg.Steps)
	}
	cfg.Start = cfg.Start.UTC()
	cfg.End = cfg.End.UTC()
	return &Generator{cfg: cfg}, nil
}

// Config returns a copy of the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate returns Steps instants linearly interpolated between Start and End,
// both endpoints included. A single step yields only Start. Offsets are
// computed in whole nanoseconds and rounded toward Start, so the grid is
// monotone and equal endpoints give identical entries.
func (g *Generator) Generate() []time.Time {
	n := g.cfg.Steps
	out := make([]time.Time, n)
	out[0] = g.cfg.Start
	if n == 1 {
		return out
	}
	if g.cfg.Start.Equal(g.cfg.End) {
		for i := range out {
			out[i] = g.cfg.Start
		}
		return out
	}

	// big.Int keeps spans beyond time.Duration's ~292 years exact
	span := nanosBetween(g.cfg.Start, g.cfg.End)
	steps := big.NewInt(int64(n - 1))
	for i := 1; i < n-1; i++ {
		off := new(big.Int).Mul(span, big.NewInt(int64(i)))
		off.Quo(off, steps)
		out[i] = addNanos(g.cfg.Start, off)
	}
	out[n-1] = g.cfg.End
	return out
}

var nanosPerSecond = big.NewInt(int64(time.Second))

func nanosBetween(from, to time.Time) *big.Int {
	d := big.NewInt(to.Unix() - from.Unix())
	d.Mul(d, nanosPerSecond)
	return d.Add(d, big.NewInt(int64(to.Nanosecond()-from.Nanosecond())))
}

func addNanos(t time.Time, nanos *big.Int) time.Time {
	sec, nsec := new(big.Int).DivMod(nanos, nanosPerSecond, new(big.Int))
	return time.Unix(t.Unix()+sec.Int64(), int64(t.Nanosecond())+nsec.Int64()).UTC()
}

// FormatISO renders t the way slider labels show it.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006:002:15:04:05.999999999",
	"2006:002:15:04:05",
	"2006:002",
}

// ParseInstant parses an ISO, ISOT, RFC 3339, day-of-year or Julian date ("JD2451545.0")
// string. Zone-less values are read as UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidInstant)
	}

	if rest, ok := cutPrefixFold(s, "JD"); ok {
		jd, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil || math.IsNaN(jd) || math.IsInf(jd, 0) {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, s)
		}
		return julian.JDToTime(jd).UTC(), nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, s)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
