package segmenter

import (
	"fmt"
	"math"
)

// TimeDelta is a signed time interval with picosecond resolution.
// Digit times are stored in ns as floats upstream; they are converted once on
// input so that shifting between trigger origins is exact integer arithmetic.
type TimeDelta int64

const (
	Picosecond  TimeDelta = 1
	Nanosecond            = 1000 * Picosecond
	Microsecond           = 1000 * Nanosecond
	Millisecond           = 1000 * Microsecond
	Second                = 1000 * Millisecond
)

func NewTimeDeltaNs(ns float64) TimeDelta {
	return TimeDelta(math.Round(ns * float64(Nanosecond)))
}

func (t TimeDelta) Ns() float64 {
	return float64(t) / float64(Nanosecond)
}

func (t TimeDelta) String() string {
	return fmt.Sprintf("%.3f ns", t.Ns())
}
