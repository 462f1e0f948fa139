package easing

import (
	"math"
	"time"
)

// Factors are the derived, immutable coefficients of one play session.
type Factors struct {
	Start int
	End   int

	TotalMs float64

	AccelerateA float64
	DecelerateA float64
	DecelerateB float64
	LinearRate  float64

	AcceleratePhaseMs float64
	LinearPhaseMs     float64
	DeceleratePhaseMs float64
}

// Distance returns |End - Start|.
func (f Factors) Distance() float64 {
	return math.Abs(float64(f.End - f.Start))
}

// Forward reports whether the value grows over the session.
func (f Factors) Forward() bool { return f.End > f.Start }

// Boundaries returns the elapsed times at which the curve enters the linear
// and the decelerate phase.
func (f Factors) Boundaries() (linearStart, decelerateStart float64) {
	return f.AcceleratePhaseMs, f.AcceleratePhaseMs + f.LinearPhaseMs
}

// TickInterval is the scheduler period for f: the time one unit step takes
// on average, floored to whole milliseconds and never below 1ms.
func TickInterval(f Factors) time.Duration {
	s := f.Distance()
	if s == 0 {
		return time.Millisecond
	}
	ms := math.Floor(f.TotalMs / s)
	if ms < 1 {
		ms = 1
	}
	return time.Duration(ms) * time.Millisecond
}
