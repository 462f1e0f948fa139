package easing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is the sentinel matched by every derivation failure.
var ErrInvalidConfig = errors.New("invalid easing configuration")

// ratioEpsilon absorbs float noise when checking AccelerateRatio+DecelerateRatio <= 1.
const ratioEpsilon = 1e-9

// ConfigError describes why a Config cannot be derived.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("easing: %s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) hold.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func invalid(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Config is the caller-supplied description of one animation.
//
// Zero means "unset" for TotalMs, LinearRate, the coefficients and
// MaxTotalMs. For a pure linear curve exactly one of TotalMs and LinearRate
// must be set. Curved profiles need TotalMs, LinearRate, or a coefficient
// matching a non-zero ratio.
type Config struct {
	Start int
	End   int

	// TotalMs is the requested duration in milliseconds.
	TotalMs float64
	// LinearRate is the cruise speed in value units per millisecond.
	LinearRate float64

	// AccelerateRatio and DecelerateRatio are the fractions of the total
	// duration spent speeding up and slowing down.
	AccelerateRatio float64
	DecelerateRatio float64

	// AccelerateCoeff is an explicit A for the accelerate phase (units/ms²).
	AccelerateCoeff float64
	// DecelerateCoeff is the magnitude of DA for the decelerate phase.
	DecelerateCoeff float64

	// MaxTotalMs caps the resolved duration.
	MaxTotalMs float64
}

// Distance returns |End - Start|.
func (c Config) Distance() float64 {
	return math.Abs(float64(c.End - c.Start))
}

// Linear reports whether the curve has no accelerate or decelerate phase.
func (c Config) Linear() bool {
	return c.AccelerateRatio == 0 && c.DecelerateRatio == 0
}

// Degenerate reports whether start and end coincide.
func (c Config) Degenerate() bool { return c.Start == c.End }

// Reversed returns a copy with Start and End swapped.
func (c Config) Reversed() Config {
	c.Start, c.End = c.End, c.Start
	return c
}

func (c Config) validate() error {
	switch {
	case c.Degenerate():
		return invalid("end", "equals start (%d); nothing to interpolate", c.Start)
	case c.AccelerateRatio < 0 || c.AccelerateRatio > 1:
		return invalid("accelerate_ratio", "%g is outside [0, 1]", c.AccelerateRatio)
	case c.DecelerateRatio < 0 || c.DecelerateRatio > 1:
		return invalid("decelerate_ratio", "%g is outside [0, 1]", c.DecelerateRatio)
	case c.AccelerateRatio+c.DecelerateRatio > 1+ratioEpsilon:
		return invalid("accelerate_ratio", "accelerate + decelerate = %g exceeds 1",
			c.AccelerateRatio+c.DecelerateRatio)
	case c.TotalMs < 0 || math.IsNaN(c.TotalMs) || math.IsInf(c.TotalMs, 0):
		return invalid("total_ms", "%g is not a valid duration", c.TotalMs)
	case c.LinearRate < 0 || math.IsNaN(c.LinearRate) || math.IsInf(c.LinearRate, 0):
		return invalid("linear_rate", "%g is not a valid rate", c.LinearRate)
	case c.MaxTotalMs < 0 || math.IsNaN(c.MaxTotalMs):
		return invalid("max_total_ms", "%g is not a valid duration", c.MaxTotalMs)
	case c.AccelerateCoeff < 0 || c.DecelerateCoeff < 0:
		return invalid("coefficient", "coefficients are magnitudes and must be >= 0")
	}
	return nil
}
