// Package experiment assembles runnable effects from configuration.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/meshsim/internal/config"
	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/sim"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	runner   *sim.Runner
	log      *slog.Logger
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		log:      slog.Default(),
	}
}

func (e *Experiment) SetLogger(l *slog.Logger) { e.log = l }

// Setup validates the configuration and builds the runner. A nil metrics
// slice selects the registry defaults for the effect.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	runner, err := e.build(e.cfg)
	if err != nil {
		return err
	}
	if metrics == nil {
		metrics = e.registry.DefaultMetrics(e.cfg.Effect)
	}
	for _, m := range metrics {
		runner.AddMetric(m)
	}
	e.runner = runner
	return nil
}

func (e *Experiment) build(cfg *config.Config) (*sim.Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	effect, listener, err := Launch(e.registry, cfg)
	if err != nil {
		return nil, err
	}
	script, err := e.registry.NewScript(cfg.Script, cfg.Viewport.Width, cfg.Viewport.Height)
	if err != nil {
		return nil, err
	}
	runner := sim.New(effect, listener, script)
	runner.SetLogger(e.log)
	return runner, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, ErrNotSetup
	}
	return e.runner.Run(ctx, e.SimConfig())
}

// Runner returns the underlying runner for adding observers.
func (e *Experiment) Runner() *sim.Runner { return e.runner }

func (e *Experiment) Registry() *Registry { return e.registry }

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Frames:          e.cfg.Frames,
		FPS:             e.cfg.FPS,
		Width:           e.cfg.Viewport.Width,
		Height:          e.cfg.Viewport.Height,
		Seed:            e.cfg.Seed,
		ActiveThreshold: e.registry.ActiveThreshold(e.cfg.Effect),
	}
}

// Factory returns a sim.Factory that builds a fresh runner with default
// metrics for each seed.
func (e *Experiment) Factory() sim.Factory {
	return func(seed int64) (*sim.Runner, error) {
		cfg := e.cfg.Clone()
		cfg.Seed = seed
		runner, err := e.build(cfg)
		if err != nil {
			return nil, err
		}
		for _, m := range e.registry.DefaultMetrics(cfg.Effect) {
			runner.AddMetric(m)
		}
		return runner, nil
	}
}

// Launch builds the effect and listener described by cfg, seeding the
// effect's randomness from cfg.Seed.
func Launch(r *Registry, cfg *config.Config) (field.Effect, *energy.Listener, error) {
	effect, err := r.NewEffect(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, nil, err
	}
	listener, err := energy.NewListener(cfg.Energy)
	if err != nil {
		return nil, nil, err
	}
	return effect, listener, nil
}
