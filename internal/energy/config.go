package energy

import (
	"errors"
	"fmt"

	"github.com/san-kum/meshsim/internal/field"
)

// Mode selects how energy moves toward its target.
type Mode string

const (
	ModeTween  Mode = "tween"
	ModeSpring Mode = "spring"
)

const (
	DefaultRiseDuration = 0.5
	DefaultFallDuration = 1.5
	DefaultDamping      = 1.0
)

type Config struct {
	Mode         Mode    `yaml:"mode"`
	RiseDuration float64 `yaml:"rise_duration"`
	FallDuration float64 `yaml:"fall_duration"`
	// IdleTimeout starts a fall after this many seconds without pointer
	// movement. Zero disables it.
	IdleTimeout float64 `yaml:"idle_timeout"`
	// Damping is the spring damping ratio, used only in spring mode.
	Damping float64 `yaml:"damping"`
}

func DefaultConfig() Config {
	return Config{
		Mode:         ModeTween,
		RiseDuration: DefaultRiseDuration,
		FallDuration: DefaultFallDuration,
		Damping:      DefaultDamping,
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeTween, ModeSpring, "":
	default:
		errs = append(errs, &field.ParamError{Name: "mode", Reason: fmt.Sprintf("unknown mode %q", c.Mode)})
	}
	errs = append(errs,
		field.CheckPositive("rise_duration", c.RiseDuration),
		field.CheckPositive("fall_duration", c.FallDuration),
		field.CheckRange("idle_timeout", c.IdleTimeout, 0, 3600),
	)
	if c.Mode == ModeSpring {
		errs = append(errs, field.CheckPositive("damping", c.Damping))
	}
	return errors.Join(errs...)
}
