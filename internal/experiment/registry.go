package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/meshsim/internal/circuit"
	"github.com/san-kum/meshsim/internal/config"
	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/hexgrid"
	"github.com/san-kum/meshsim/internal/mesh"
	"github.com/san-kum/meshsim/internal/metrics"
	"github.com/san-kum/meshsim/internal/sim"
)

type effectEntry struct {
	build func(cfg *config.Config, rng *rand.Rand) (field.Effect, error)
	// threshold is the activity above which an element counts as busy.
	threshold float64
}

type Registry struct {
	effects map[string]effectEntry
	scripts map[string]func(w, h float64) sim.PointerScript
}

func NewRegistry() *Registry {
	r := &Registry{
		effects: make(map[string]effectEntry),
		scripts: make(map[string]func(w, h float64) sim.PointerScript),
	}

	r.effects["mesh"] = effectEntry{
		build: func(cfg *config.Config, rng *rand.Rand) (field.Effect, error) {
			return mesh.New(cfg.Mesh, rng)
		},
		threshold: 1.0,
	}
	r.effects["hexgrid"] = effectEntry{
		build: func(cfg *config.Config, rng *rand.Rand) (field.Effect, error) {
			return hexgrid.New(cfg.HexGrid, rng)
		},
		threshold: 0.05,
	}
	r.effects["circuit"] = effectEntry{
		build: func(cfg *config.Config, rng *rand.Rand) (field.Effect, error) {
			return circuit.New(cfg.Circuit, rng)
		},
		threshold: 0.05,
	}

	r.scripts["idle"] = func(w, h float64) sim.PointerScript { return sim.Idle{} }
	r.scripts["orbit"] = func(w, h float64) sim.PointerScript { return sim.NewOrbit(w, h) }
	r.scripts["sweep"] = func(w, h float64) sim.PointerScript { return sim.NewSweep(w, h) }
	r.scripts["dwell"] = func(w, h float64) sim.PointerScript { return sim.NewDwell(w, h) }

	return r
}

// NewEffect builds cfg.Effect from its section of cfg.
func (r *Registry) NewEffect(cfg *config.Config, rng *rand.Rand) (field.Effect, error) {
	e, ok := r.effects[cfg.Effect]
	if !ok {
		return nil, fmt.Errorf("%w: %q", field.ErrUnknownEffect, cfg.Effect)
	}
	return e.build(cfg, rng)
}

// NewScript builds a pointer script sized to a w x h viewport.
func (r *Registry) NewScript(name string, w, h float64) (sim.PointerScript, error) {
	fn, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", field.ErrUnknownScript, name)
	}
	return fn(w, h), nil
}

func (r *Registry) ListEffects() []string { return sortedKeys(r.effects) }
func (r *Registry) ListScripts() []string { return sortedKeys(r.scripts) }

// ActiveThreshold is the per-element activity above which the effect counts
// as busy. Mesh activity is displacement in pixels; the others are unit
// intensities.
func (r *Registry) ActiveThreshold(effect string) float64 {
	if e, ok := r.effects[effect]; ok {
		return e.threshold
	}
	return 1.0
}

func (r *Registry) DefaultMetrics(effect string) []sim.Metric {
	threshold := r.ActiveThreshold(effect)
	return []sim.Metric{
		metrics.NewMeanEnergy(),
		metrics.NewPeakActivity(),
		metrics.NewStability(threshold),
		metrics.NewSettleFrames(threshold),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
