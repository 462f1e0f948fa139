// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the EASEPLAY_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value. The
// first flag name is the canonical one. apply reports whether the value
// was understood.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) bool
}

func intOverride(dst func(*AppConfig) *int) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		*dst(c) = parsed
		return true
	}
}

func floatOverride(dst func(*AppConfig) *float64) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		*dst(c) = parsed
		return true
	}
}

func durationOverride(dst func(*AppConfig) *time.Duration) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return false
		}
		*dst(c) = parsed
		return true
	}
}

func stringOverride(dst func(*AppConfig) *string) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		*dst(c) = v
		return true
	}
}

func boolOverride(dst func(*AppConfig) *bool) func(*AppConfig, string) bool {
	return func(c *AppConfig, v string) bool {
		parsed, ok := parseBoolEnv(v)
		if ok {
			*dst(c) = parsed
		}
		return ok
	}
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Segment and curve
	{"FROM", []string{"from"}, intOverride(func(c *AppConfig) *int { return &c.From })},
	{"TO", []string{"to"}, intOverride(func(c *AppConfig) *int { return &c.To })},
	{"DURATION", []string{"duration"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.Duration })},
	{"RATE", []string{"rate"}, floatOverride(func(c *AppConfig) *float64 { return &c.Rate })},
	{"ACCEL", []string{"accel"}, floatOverride(func(c *AppConfig) *float64 { return &c.Accelerate })},
	{"DECEL", []string{"decel"}, floatOverride(func(c *AppConfig) *float64 { return &c.Decelerate })},
	{"ACCEL_COEFF", []string{"accel-coeff"}, floatOverride(func(c *AppConfig) *float64 { return &c.AccelerateCoeff })},
	{"DECEL_COEFF", []string{"decel-coeff"}, floatOverride(func(c *AppConfig) *float64 { return &c.DecelerateCoeff })},
	{"MAX_DURATION", []string{"max-duration"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.MaxDuration })},

	// Presets
	{"PROFILE", []string{"profile"}, stringOverride(func(c *AppConfig) *string { return &c.Profile })},
	{"PRESET", []string{"preset"}, stringOverride(func(c *AppConfig) *string { return &c.Preset })},

	// Modes
	{"TIMEOUT", []string{"timeout"}, durationOverride(func(c *AppConfig) *time.Duration { return &c.Timeout })},
	{"METRICS_ORIGINS", []string{"metrics-origins"}, stringOverride(func(c *AppConfig) *string { return &c.MetricsOrigins })},
	{"METRICS_ADDR", []string{"metrics-addr"}, stringOverride(func(c *AppConfig) *string { return &c.MetricsAddr })},
	{"REVERSE", []string{"reverse"}, boolOverride(func(c *AppConfig) *bool { return &c.Reverse })},
	{"TUI", []string{"tui"}, boolOverride(func(c *AppConfig) *bool { return &c.TUI })},
	{"REPL", []string{"repl"}, boolOverride(func(c *AppConfig) *bool { return &c.REPL })},

	// Output
	{"LOG_LEVEL", []string{"log-level"}, stringOverride(func(c *AppConfig) *string { return &c.LogLevel })},
	{"QUIET", []string{"quiet", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Quiet })},
	{"VERBOSE", []string{"verbose", "v"}, boolOverride(func(c *AppConfig) *bool { return &c.Verbose })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
	{"LOG_FORMAT", []string{"log-format"}, stringOverride(func(c *AppConfig) *string { return &c.LogFormat })},
	{"THEME", []string{"theme"}, stringOverride(func(c *AppConfig) *string { return &c.Theme })},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func parseBoolEnv(val string) (bool, bool) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line, and
// returns the canonical flag names it set. Unparsable values are ignored.
// This implements the priority: CLI flags > environment > profile > defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) map[string]bool {
	applied := make(map[string]bool)
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" && o.apply(config, val) {
			applied[o.flags[0]] = true
		}
	}
	return applied
}
