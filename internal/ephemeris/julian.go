package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	j2000          = 2451545.0
	daysPerCentury = 36525.0
	secondsPerDay  = 86400.0

	// TT - UTC for all dates since 2017. Earlier and later leap seconds are ignored.
	ttMinusUTC = 69.184
)

// utcJD returns the Julian date of t on the UTC scale.
func utcJD(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// ttJD returns the Julian date of t on the Terrestrial Time scale.
func ttJD(t time.Time) float64 {
	return utcJD(t) + ttMinusUTC/secondsPerDay
}

// tdbJD converts t to a Barycentric Dynamical Time Julian date using the
// two-term periodic approximation of TDB - TT.
func tdbJD(t time.Time) float64 {
	tt := ttJD(t)
	g := (357.53 + 0.98560028*(tt-j2000)) * math.Pi / 180
	return tt + (0.001658*math.Sin(g)+0.000014*math.Sin(2*g))/secondsPerDay
}

// centuries returns Julian centuries since J2000.0 for a Julian date.
func centuries(jd float64) float64 {
	return (jd - j2000) / daysPerCentury
}
