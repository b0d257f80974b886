package circuit

import (
	"errors"

	"github.com/san-kum/meshsim/internal/field"
)

type Config struct {
	GridSize     float64     `yaml:"grid_size"`
	Speed        float64     `yaml:"speed"`
	TurnChance   float64     `yaml:"turn_chance"`
	MaxTravelers int         `yaml:"max_travelers"`
	SurgeRadius  float64     `yaml:"surge_radius"`
	SurgeFactor  float64     `yaml:"surge_factor"`
	TetherAlpha  float64     `yaml:"tether_alpha"`
	TrailLength  int         `yaml:"trail_length"`
	TrailAlpha   float64     `yaml:"trail_alpha"`
	HeadSize     float64     `yaml:"head_size"`
	Color        field.Color `yaml:"color"`
	Surge        field.Color `yaml:"surge"`
}

func DefaultConfig() Config {
	return Config{
		GridSize:     30,
		Speed:        2,
		TurnChance:   0.05,
		MaxTravelers: 40,
		SurgeRadius:  120,
		SurgeFactor:  2,
		TetherAlpha:  0.4,
		TrailLength:  12,
		TrailAlpha:   0.35,
		HeadSize:     2,
		Color:        field.RGB(34, 211, 238),
		Surge:        field.RGB(255, 255, 255),
	}
}

func (c Config) Validate() error {
	return errors.Join(
		field.CheckPositive("grid_size", c.GridSize),
		field.CheckPositive("speed", c.Speed),
		field.CheckRange("turn_chance", c.TurnChance, 0, 1),
		field.CheckRange("max_travelers", float64(c.MaxTravelers), 0, 10000),
		field.CheckRange("surge_radius", c.SurgeRadius, 0, 1e6),
		field.CheckRange("surge_factor", c.SurgeFactor, 1, 10),
		field.CheckRange("tether_alpha", c.TetherAlpha, 0, 1),
		field.CheckRange("trail_length", float64(c.TrailLength), 0, 256),
		field.CheckRange("trail_alpha", c.TrailAlpha, 0, 1),
		field.CheckPositive("head_size", c.HeadSize),
	)
}

func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"speed":        c.Speed,
		"turn_chance":  c.TurnChance,
		"surge_radius": c.SurgeRadius,
	}
}

func (c *Config) SetParam(name string, value float64) error {
	next := *c
	switch name {
	case "speed":
		next.Speed = value
	case "turn_chance":
		next.TurnChance = value
	case "surge_radius":
		next.SurgeRadius = value
	default:
		return &field.ParamError{Name: name, Value: value, Reason: "unknown parameter"}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
