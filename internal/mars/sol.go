package mars

import (
	"math"
	"time"
)

const (
	// LandingUnix is the Curiosity landing instant, 2012-08-06 05:17:00 UTC.
	LandingUnix int64 = 1344230220

	// SecondsPerSol is the length of one Martian solar day in Earth seconds.
	SecondsPerSol = 88775.245
)

// Sol identifies a Martian solar day counted from the Curiosity landing.
type Sol int64

// LandingTime returns the landing instant as a UTC time.
func LandingTime() time.Time {
	return time.Unix(LandingUnix, 0).UTC()
}

// SolFor returns the sol that t falls in. Any started fraction of a sol counts
// as the next sol, so the result is rounded up; instants before the landing
// produce zero or negative sols.
func SolFor(t time.Time) Sol {
	delta := t.Unix() - LandingUnix
	return Sol(math.Ceil(float64(delta) / SecondsPerSol))
}
