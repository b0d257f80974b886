package hexgrid

import (
	"errors"

	"github.com/san-kum/meshsim/internal/field"
)

type Config struct {
	Radius           float64     `yaml:"radius"`
	HoverRadius      float64     `yaml:"hover_radius"`
	BaseOpacity      float64     `yaml:"base_opacity"`
	ActiveOpacity    float64     `yaml:"active_opacity"`
	PulseOpacity     float64     `yaml:"pulse_opacity"`
	Decay            float64     `yaml:"decay"`
	PulseProbability float64     `yaml:"pulse_probability"`
	PulseSpeedMin    float64     `yaml:"pulse_speed_min"`
	PulseSpeedSpread float64     `yaml:"pulse_speed_spread"`
	Levels           int         `yaml:"levels"`
	Base             field.Color `yaml:"base"`
	Active           field.Color `yaml:"active"`
}

func DefaultConfig() Config {
	return Config{
		Radius:           25,
		HoverRadius:      150,
		BaseOpacity:      0.1,
		ActiveOpacity:    1,
		PulseOpacity:     0.6,
		Decay:            0.95,
		PulseProbability: 0.0005,
		PulseSpeedMin:    0.02,
		PulseSpeedSpread: 0.03,
		Levels:           16,
		Base:             field.RGB(30, 41, 59),
		Active:           field.RGB(34, 211, 238),
	}
}

func (c Config) Validate() error {
	errs := []error{
		field.CheckPositive("radius", c.Radius),
		field.CheckRange("hover_radius", c.HoverRadius, 0, 1e6),
		field.CheckRange("base_opacity", c.BaseOpacity, 0, 1),
		field.CheckRange("active_opacity", c.ActiveOpacity, 0, 1),
		field.CheckRange("pulse_opacity", c.PulseOpacity, 0, 1),
		field.CheckOpen("decay", c.Decay, 0, 1),
		field.CheckRange("pulse_probability", c.PulseProbability, 0, 1),
		field.CheckPositive("pulse_speed_min", c.PulseSpeedMin),
		field.CheckRange("pulse_speed_spread", c.PulseSpeedSpread, 0, 1),
		field.CheckRange("levels", float64(c.Levels), 1, 256),
	}
	if c.ActiveOpacity <= c.BaseOpacity {
		errs = append(errs, &field.ParamError{Name: "active_opacity", Value: c.ActiveOpacity, Reason: "must exceed base_opacity"})
	}
	return errors.Join(errs...)
}

func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"hover_radius": c.HoverRadius,
		"decay":        c.Decay,
		"pulse_prob":   c.PulseProbability,
	}
}

func (c *Config) SetParam(name string, value float64) error {
	next := *c
	switch name {
	case "hover_radius":
		next.HoverRadius = value
	case "decay":
		next.Decay = value
	case "pulse_prob":
		next.PulseProbability = value
	default:
		return &field.ParamError{Name: name, Value: value, Reason: "unknown parameter"}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
