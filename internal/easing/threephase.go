package easing

import "math"

// Strategy derives a curve from a Config and evaluates it.
type Strategy interface {
	Derive(cfg Config) (Factors, error)
	ValueAt(f Factors, elapsedMs float64) int
}

// ThreePhase is the accelerate / linear / decelerate curve family.
type ThreePhase struct{}

var _ Strategy = ThreePhase{}

// Derive validates cfg and solves for its Factors.
//
// When both ratios are non-zero the accelerate coefficient is solved first
// and the decelerate coefficient follows from velocity continuity; with only
// a decelerate phase the order is reversed. Either order yields the same
// curve since distance and continuity fully determine it.
func (ThreePhase) Derive(cfg Config) (Factors, error) {
	if err := cfg.validate(); err != nil {
		return Factors{}, err
	}
	if cfg.Linear() {
		return deriveLinear(cfg)
	}
	return deriveCurved(cfg)
}

func deriveLinear(cfg Config) (Factors, error) {
	hasTotal, hasRate := cfg.TotalMs > 0, cfg.LinearRate > 0
	switch {
	case hasTotal && hasRate:
		return Factors{}, invalid("linear_rate", "linear curves take a total duration or a rate, not both")
	case !hasTotal && !hasRate:
		return Factors{}, invalid("total_ms", "linear curves need a total duration or a rate")
	}

	s := cfg.Distance()
	total := cfg.TotalMs
	if !hasTotal {
		total = s / cfg.LinearRate
	}
	if cfg.MaxTotalMs > 0 && total > cfg.MaxTotalMs {
		total = cfg.MaxTotalMs
	}
	return Factors{
		Start:         cfg.Start,
		End:           cfg.End,
		TotalMs:       total,
		LinearRate:    s / total,
		LinearPhaseMs: total,
	}, nil
}

func deriveCurved(cfg Config) (Factors, error) {
	a, d := cfg.AccelerateRatio, cfg.DecelerateRatio
	s := cfg.Distance()

	total := cfg.TotalMs
	if total == 0 {
		switch {
		case cfg.LinearRate > 0:
			// Each quadratic phase covers half the distance a cruise at the
			// same rate would.
			total = s / (cfg.LinearRate * (1 - (a+d)/2))
		case (a != 0 && cfg.AccelerateCoeff > 0) || (d != 0 && cfg.DecelerateCoeff > 0):
			accA, decA, cruise := givenCoefficients(cfg)
			denom := accA*a*a + 2*cruise*(1-a-d) - decA*d*d
			if denom <= 0 {
				return Factors{}, invalid("coefficient", "coefficients cover no distance")
			}
			total = math.Sqrt(s / denom)
		default:
			return Factors{}, invalid("total_ms",
				"curved profiles need a total duration, a linear rate or a matching phase coefficient")
		}
	}

	if cfg.MaxTotalMs > 0 && total > cfg.MaxTotalMs {
		clamped := cfg
		clamped.TotalMs = cfg.MaxTotalMs
		return deriveCurved(clamped)
	}
	return solve(cfg, total), nil
}

// givenCoefficients expands the caller-supplied coefficient into the full
// (A, DA, A·a) triple. cruise is half the linear rate divided by the
// duration, which is what both phase coefficients have in common.
func givenCoefficients(cfg Config) (accA, decA, cruise float64) {
	a, d := cfg.AccelerateRatio, cfg.DecelerateRatio
	if a != 0 && cfg.AccelerateCoeff > 0 {
		accA = cfg.AccelerateCoeff
		cruise = accA * a
		if d != 0 {
			decA = -accA * a / d
		}
		return accA, decA, cruise
	}
	decA = -cfg.DecelerateCoeff
	cruise = -decA * d
	if a != 0 {
		accA = -decA * d / a
	}
	return accA, decA, cruise
}

func solve(cfg Config, total float64) Factors {
	a, d := cfg.AccelerateRatio, cfg.DecelerateRatio
	s := cfg.Distance()
	t2 := total * total

	var accA, decA, cruise float64
	if a != 0 {
		accA = s / ((a*a + 2*a*(1-a-d) + a*d) * t2)
		cruise = accA * a
		if d != 0 {
			decA = -accA * a / d
		}
	} else {
		decA = -s / ((d*d + 2*d*(1-a-d) + a*d) * t2)
		cruise = -decA * d
	}

	rate := 2 * cruise * total
	accPhase := total * a
	decPhase := total * d
	return Factors{
		Start:             cfg.Start,
		End:               cfg.End,
		TotalMs:           total,
		AccelerateA:       accA,
		DecelerateA:       decA,
		DecelerateB:       rate,
		LinearRate:        rate,
		AcceleratePhaseMs: accPhase,
		LinearPhaseMs:     total - accPhase - decPhase,
		DeceleratePhaseMs: decPhase,
	}
}

// Displacement returns the unrounded distance covered after elapsedMs.
func Displacement(f Factors, elapsedMs float64) float64 {
	if elapsedMs <= 0 {
		return 0
	}
	if elapsedMs >= f.TotalMs {
		return f.Distance()
	}
	accEnd, linEnd := f.Boundaries()
	accDist := f.AccelerateA * f.AcceleratePhaseMs * f.AcceleratePhaseMs
	switch {
	case elapsedMs <= accEnd:
		return f.AccelerateA * elapsedMs * elapsedMs
	case elapsedMs <= linEnd:
		return accDist + f.LinearRate*(elapsedMs-accEnd)
	default:
		u := elapsedMs - linEnd
		return accDist + f.LinearRate*f.LinearPhaseMs + f.DecelerateA*u*u + f.DecelerateB*u
	}
}

// ValueAt returns the integer value after elapsedMs. Once the session's
// duration is reached it returns End exactly.
func (ThreePhase) ValueAt(f Factors, elapsedMs float64) int {
	if elapsedMs >= f.TotalMs {
		return f.End
	}
	delta := int(Displacement(f, elapsedMs))
	if s := int(f.Distance()); delta > s {
		delta = s
	}
	if f.Forward() {
		return f.Start + delta
	}
	return f.Start - delta
}
