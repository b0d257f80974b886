package mesh

import (
	"errors"

	"github.com/san-kum/meshsim/internal/field"
)

const (
	DefaultSpacing   = 40.0
	DefaultRadius    = 200.0
	DefaultRepulsion = 2.0
	DefaultSpring    = 0.05
	DefaultFriction  = 0.90
	DefaultBuckets   = 5
)

// Config holds the mesh physics and rendering constants.
type Config struct {
	Spacing   float64 `yaml:"spacing"`
	Radius    float64 `yaml:"radius"`
	Repulsion float64 `yaml:"repulsion"`
	Spring    float64 `yaml:"spring"`
	Friction  float64 `yaml:"friction"`

	Sparsity              float64 `yaml:"sparsity"`               // edges drawn when density > this
	MajorThreshold        float64 `yaml:"major_threshold"`        // major nodes when density > this
	DisplacementThreshold float64 `yaml:"displacement_threshold"` // px before a node glows
	IntensityScale        float64 `yaml:"intensity_scale"`        // px of displacement for full glow
	EnergyEpsilon         float64 `yaml:"energy_epsilon"`

	Buckets    int     `yaml:"buckets"`
	BaseAlpha  float64 `yaml:"base_alpha"`
	AlphaSwing float64 `yaml:"alpha_swing"`
	BreathRate float64 `yaml:"breath_rate"` // rad/s
	MajorAlpha float64 `yaml:"major_alpha"`

	Dormant field.Color `yaml:"dormant"`
	Active  field.Color `yaml:"active"`
	Hot     field.Color `yaml:"hot"`
}

func DefaultConfig() Config {
	return Config{
		Spacing:               DefaultSpacing,
		Radius:                DefaultRadius,
		Repulsion:             DefaultRepulsion,
		Spring:                DefaultSpring,
		Friction:              DefaultFriction,
		Sparsity:              0.5,
		MajorThreshold:        0.9,
		DisplacementThreshold: 0.5,
		IntensityScale:        40,
		EnergyEpsilon:         0.01,
		Buckets:               DefaultBuckets,
		BaseAlpha:             0.15,
		AlphaSwing:            0.05,
		BreathRate:            2.0,
		MajorAlpha:            0.3,
		Dormant:               field.RGB(15, 23, 42),
		Active:                field.RGB(6, 182, 212),
		Hot:                   field.RGB(168, 85, 247),
	}
}

// Validate checks the stability constraints of the explicit Euler step
// (friction and spring strictly inside (0, 1)) and the rendering ranges.
func (c Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	add(field.CheckPositive("spacing", c.Spacing))
	add(field.CheckPositive("radius", c.Radius))
	add(field.CheckRange("repulsion", c.Repulsion, 0, 1e6))
	add(field.CheckOpen("spring", c.Spring, 0, 1))
	add(field.CheckOpen("friction", c.Friction, 0, 1))
	add(field.CheckRange("sparsity", c.Sparsity, 0, 1))
	add(field.CheckRange("major_threshold", c.MajorThreshold, 0, 1))
	add(field.CheckRange("displacement_threshold", c.DisplacementThreshold, 0, 1e6))
	add(field.CheckPositive("intensity_scale", c.IntensityScale))
	add(field.CheckRange("energy_epsilon", c.EnergyEpsilon, 0, 1))
	add(field.CheckRange("buckets", float64(c.Buckets), 1, 64))
	add(field.CheckRange("base_alpha", c.BaseAlpha, 0, 1))
	add(field.CheckRange("alpha_swing", c.AlphaSwing, 0, 1))
	add(field.CheckRange("major_alpha", c.MajorAlpha, 0, 1))
	return errors.Join(errs...)
}

// GetParams exposes the tunable physics constants by name.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"radius":    c.Radius,
		"repulsion": c.Repulsion,
		"spring":    c.Spring,
		"friction":  c.Friction,
	}
}

// SetParam updates one tunable constant, rejecting values that would make
// the integration unstable.
func (c *Config) SetParam(name string, value float64) error {
	next := *c
	switch name {
	case "radius":
		next.Radius = value
	case "repulsion":
		next.Repulsion = value
	case "spring":
		next.Spring = value
	case "friction":
		next.Friction = value
	default:
		return &field.ParamError{Name: name, Value: value, Reason: "unknown parameter"}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
