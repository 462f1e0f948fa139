// Package config resolves the application configuration from command-line
// flags, EASEPLAY_* environment variables and YAML profile presets, in that
// order of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/easeplay/internal/easing"
	apperrors "github.com/agbru/easeplay/internal/errors"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "EASEPLAY_"
	// DefaultDuration is used when no duration source is given at all.
	DefaultDuration = time.Second
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = time.Minute
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Segment.
	From int
	To   int

	// Curve.
	Duration        time.Duration
	Rate            float64
	Accelerate      float64
	Decelerate      float64
	AccelerateCoeff float64
	DecelerateCoeff float64
	MaxDuration     time.Duration

	// Presets.
	Profile string
	Preset  string

	// Modes.
	Reverse     bool
	TUI         bool
	REPL        bool
	MetricsAddr string
	// MetricsOrigins is a comma-separated CORS allow list; empty allows any.
	MetricsOrigins string
	Timeout     time.Duration

	// Output.
	Quiet      bool
	Verbose    bool
	NoColor    bool
	Theme      string
	LogLevel   string
	LogFormat  string
	Completion string

	ShowVersion bool
}

// Default returns the configuration used when nothing overrides it.
func Default() AppConfig {
	return AppConfig{
		From:     0,
		To:       100,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
	}
}

// ParseConfig parses args, then applies environment overrides and the
// selected profile preset to every field not set on the command line.
// flag.ErrHelp is returned unwrapped when help was requested; every other
// failure is an apperrors.ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() { printUsage(fs, programName, errorWriter) }

	fs.IntVar(&cfg.From, "from", cfg.From, "Start value of the segment.")
	fs.IntVar(&cfg.To, "to", cfg.To, "End value of the segment.")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "Total duration of the curve (e.g. 800ms). Defaults to 1s when no rate or coefficient is given.")
	fs.Float64Var(&cfg.Rate, "rate", cfg.Rate, "Cruise rate in value units per millisecond.")
	fs.Float64Var(&cfg.Accelerate, "accel", cfg.Accelerate, "Fraction of the duration spent accelerating [0,1].")
	fs.Float64Var(&cfg.Decelerate, "decel", cfg.Decelerate, "Fraction of the duration spent decelerating [0,1].")
	fs.Float64Var(&cfg.AccelerateCoeff, "accel-coeff", cfg.AccelerateCoeff, "Explicit acceleration coefficient (units/ms²).")
	fs.Float64Var(&cfg.DecelerateCoeff, "decel-coeff", cfg.DecelerateCoeff, "Explicit deceleration coefficient magnitude (units/ms²).")
	fs.DurationVar(&cfg.MaxDuration, "max-duration", cfg.MaxDuration, "Hard cap on the resolved duration (0 = none).")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "YAML file with named presets.")
	fs.StringVar(&cfg.Preset, "preset", cfg.Preset, "Preset to load from the profile.")
	fs.BoolVar(&cfg.Reverse, "reverse", cfg.Reverse, "Play from the end back to the start.")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Launch the interactive dashboard.")
	fs.BoolVar(&cfg.REPL, "repl", cfg.REPL, "Start an interactive command prompt.")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address while running.")
	fs.StringVar(&cfg.MetricsOrigins, "metrics-origins", cfg.MetricsOrigins, "Comma-separated origins allowed to read the metrics server (default any).")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum run time for one-shot playback.")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Print only the final value.")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print curve details and debug logs.")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output.")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme (dark, light, orange, none).")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (console, json, plain).")
	fs.StringVar(&cfg.Completion, "completion", cfg.Completion, "Print a completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&cfg.ShowVersion, "version", cfg.ShowVersion, "Show version information.")
	fs.BoolVar(&cfg.ShowVersion, "V", cfg.ShowVersion, "Shorthand for --version.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	explicit := setFlags(fs)
	for name := range applyEnvOverrides(&cfg, fs) {
		explicit[name] = true
	}
	if err := applyProfile(&cfg, explicit); err != nil {
		return cfg, err
	}
	if cfg.Verbose && !explicit["log-level"] {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// applyProfile loads the configured preset, if any.
func applyProfile(cfg *AppConfig, explicit map[string]bool) error {
	if cfg.Profile == "" {
		if cfg.Preset != "" {
			return apperrors.NewConfigError("--preset %q requires --profile", cfg.Preset)
		}
		return nil
	}
	profile, err := LoadProfile(cfg.Profile)
	if err != nil {
		return err
	}
	preset, err := profile.Lookup(cfg.Preset)
	if err != nil {
		return err
	}
	preset.Apply(cfg, explicit)
	return nil
}

// setFlags returns the names of the flags given on the command line,
// normalised to their long form.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[longName(f.Name)] = true })
	return set
}

func longName(name string) string {
	switch name {
	case "q":
		return "quiet"
	case "v":
		return "verbose"
	case "V":
		return "version"
	}
	return name
}

// Validate checks the configuration and derives the curve once so that
// contract violations surface before anything starts.
func (c AppConfig) Validate() error {
	switch {
	case c.Duration < 0:
		return apperrors.NewConfigError("--duration must be positive, got %s", c.Duration)
	case c.MaxDuration < 0:
		return apperrors.NewConfigError("--max-duration must be positive, got %s", c.MaxDuration)
	case c.Timeout <= 0:
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	case c.Rate < 0:
		return apperrors.NewConfigError("--rate must be positive, got %g", c.Rate)
	case c.Accelerate < 0 || c.Accelerate > 1:
		return apperrors.NewConfigError("--accel must be within [0,1], got %g", c.Accelerate)
	case c.Decelerate < 0 || c.Decelerate > 1:
		return apperrors.NewConfigError("--decel must be within [0,1], got %g", c.Decelerate)
	case c.TUI && c.REPL:
		return apperrors.NewConfigError("--tui and --repl are mutually exclusive")
	}

	ec := c.ToEasingConfig()
	if ec.Degenerate() {
		return nil
	}
	if _, err := (easing.ThreePhase{}).Derive(ec); err != nil {
		return apperrors.NewConfigError("invalid curve: %v", err)
	}
	return nil
}

// ToEasingConfig converts the configuration to the engine's curve
// description. DefaultDuration fills in when no duration source is given.
func (c AppConfig) ToEasingConfig() easing.Config {
	total := c.Duration
	if total == 0 && c.Rate == 0 && c.AccelerateCoeff == 0 && c.DecelerateCoeff == 0 {
		total = DefaultDuration
	}
	return easing.Config{
		Start:           c.From,
		End:             c.To,
		TotalMs:         durationMs(total),
		LinearRate:      c.Rate,
		AccelerateRatio: c.Accelerate,
		DecelerateRatio: c.Decelerate,
		AccelerateCoeff: c.AccelerateCoeff,
		DecelerateCoeff: c.DecelerateCoeff,
		MaxTotalMs:      durationMs(c.MaxDuration),
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func printUsage(fs *flag.FlagSet, programName string, out io.Writer) {
	fmt.Fprintf(out, "Usage: %s [flags]\n\n", programName)
	fmt.Fprintf(out, "Plays an integer value from --from to --to along an accelerate/linear/decelerate curve.\n\n")
	fmt.Fprintf(out, "Flags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(out, "\nEvery flag can also be set through %s<NAME>, e.g. %sDURATION=800ms.\n", EnvPrefix, EnvPrefix)
}
