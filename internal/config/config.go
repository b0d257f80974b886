package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/meshsim/internal/circuit"
	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/hexgrid"
	"github.com/san-kum/meshsim/internal/mesh"
)

const (
	DefaultEffect = "mesh"
	DefaultScript = "orbit"
	DefaultFrames = 600
	DefaultFPS    = 60.0
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
	DefaultTheme  = "midnight"
)

type Config struct {
	Effect   string         `yaml:"effect"`
	Script   string         `yaml:"script"`
	Frames   int            `yaml:"frames"`
	FPS      float64        `yaml:"fps"`
	Seed     int64          `yaml:"seed"`
	Viewport ViewportConfig `yaml:"viewport"`
	Theme    string         `yaml:"theme"`
	Mesh     mesh.Config    `yaml:"mesh"`
	Energy   energy.Config  `yaml:"energy"`
	HexGrid  hexgrid.Config `yaml:"hexgrid"`
	Circuit  circuit.Config `yaml:"circuit"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Effect:   DefaultEffect,
		Script:   DefaultScript,
		Frames:   DefaultFrames,
		FPS:      DefaultFPS,
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Theme:    DefaultTheme,
		Mesh:     mesh.DefaultConfig(),
		Energy:   energy.DefaultConfig(),
		HexGrid:  hexgrid.DefaultConfig(),
		Circuit:  circuit.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults, so a file only needs the keys
// it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run settings, the energy easing and the selected
// effect's parameters.
func (c *Config) Validate() error {
	errs := []error{
		field.CheckPositive("fps", c.FPS),
		field.CheckPositive("frames", float64(c.Frames)),
		field.CheckRange("viewport.width", c.Viewport.Width, 0, 1e5),
		field.CheckRange("viewport.height", c.Viewport.Height, 0, 1e5),
		c.Energy.Validate(),
	}
	switch c.Effect {
	case "mesh":
		errs = append(errs, c.Mesh.Validate())
	case "hexgrid":
		errs = append(errs, c.HexGrid.Validate())
	case "circuit":
		errs = append(errs, c.Circuit.Validate())
	default:
		errs = append(errs, fmt.Errorf("%w: %q", field.ErrUnknownEffect, c.Effect))
	}
	return errors.Join(errs...)
}

// Dt is the fixed frame interval in seconds.
func (c *Config) Dt() float64 {
	return 1 / c.FPS
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
