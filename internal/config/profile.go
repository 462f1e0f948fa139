package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/easeplay/internal/errors"
)

// DefaultPresetName is used when --preset is empty.
const DefaultPresetName = "default"

// Profile is a YAML file of named presets:
//
//	presets:
//	  slide-in:
//	    from: 0
//	    to: 400
//	    duration: 600ms
//	    accelerate: 0.3
//	    decelerate: 0.3
//	    max_duration: 2s
type Profile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Preset holds curve settings. Nil fields leave the configuration alone.
type Preset struct {
	From            *int           `yaml:"from"`
	To              *int           `yaml:"to"`
	Duration        *time.Duration `yaml:"duration"`
	Rate            *float64       `yaml:"rate"`
	Accelerate      *float64       `yaml:"accelerate"`
	Decelerate      *float64       `yaml:"decelerate"`
	AccelerateCoeff *float64       `yaml:"accelerate_coeff"`
	DecelerateCoeff *float64       `yaml:"decelerate_coeff"`
	MaxDuration     *time.Duration `yaml:"max_duration"`
}

// LoadProfile reads and parses a profile file. Unknown keys are rejected.
func LoadProfile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewConfigError("profile: %v", err)
	}
	defer f.Close()
	return ParseProfile(f)
}

// ParseProfile parses a profile from r.
func ParseProfile(r io.Reader) (*Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewConfigError("profile: %v", err)
	}
	return &p, nil
}

// Names returns the preset names in lexical order.
func (p *Profile) Names() []string {
	names := make([]string, 0, len(p.Presets))
	for name := range p.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named preset. An empty name selects
// DefaultPresetName, or the only preset when there is exactly one.
func (p *Profile) Lookup(name string) (Preset, error) {
	if name == "" {
		if len(p.Presets) == 1 {
			for _, only := range p.Presets {
				return only, nil
			}
		}
		name = DefaultPresetName
	}
	preset, ok := p.Presets[name]
	if !ok {
		return Preset{}, apperrors.NewConfigError("unknown preset %q (available: %v)", name, p.Names())
	}
	return preset, nil
}

// Apply copies the preset's fields into cfg, skipping fields whose flag
// name is in explicit.
func (p Preset) Apply(cfg *AppConfig, explicit map[string]bool) {
	setInt(p.From, &cfg.From, explicit["from"])
	setInt(p.To, &cfg.To, explicit["to"])
	setDuration(p.Duration, &cfg.Duration, explicit["duration"])
	setFloat(p.Rate, &cfg.Rate, explicit["rate"])
	setFloat(p.Accelerate, &cfg.Accelerate, explicit["accel"])
	setFloat(p.Decelerate, &cfg.Decelerate, explicit["decel"])
	setFloat(p.AccelerateCoeff, &cfg.AccelerateCoeff, explicit["accel-coeff"])
	setFloat(p.DecelerateCoeff, &cfg.DecelerateCoeff, explicit["decel-coeff"])
	setDuration(p.MaxDuration, &cfg.MaxDuration, explicit["max-duration"])
}

// String summarises the preset for verbose output.
func (p Preset) String() string {
	s := ""
	add := func(k string, v any) { s += fmt.Sprintf("%s=%v ", k, v) }
	if p.From != nil {
		add("from", *p.From)
	}
	if p.To != nil {
		add("to", *p.To)
	}
	if p.Duration != nil {
		add("duration", *p.Duration)
	}
	if p.Rate != nil {
		add("rate", *p.Rate)
	}
	if p.Accelerate != nil {
		add("accelerate", *p.Accelerate)
	}
	if p.Decelerate != nil {
		add("decelerate", *p.Decelerate)
	}
	if p.MaxDuration != nil {
		add("max_duration", *p.MaxDuration)
	}
	if s == "" {
		return "(empty)"
	}
	return s[:len(s)-1]
}

func setInt(src *int, dst *int, skip bool) {
	if src != nil && !skip {
		*dst = *src
	}
}

func setFloat(src *float64, dst *float64, skip bool) {
	if src != nil && !skip {
		*dst = *src
	}
}

func setDuration(src *time.Duration, dst *time.Duration, skip bool) {
	if src != nil && !skip {
		*dst = *src
	}
}
