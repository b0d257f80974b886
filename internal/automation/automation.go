// Package automation runs scripted sequences of recorded runs.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/meshsim/internal/config"
	"github.com/san-kum/meshsim/internal/experiment"
	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/sim"
	"github.com/san-kum/meshsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Zero fields keep the base configuration.
type ScenarioStep struct {
	Effect string             `yaml:"effect"`
	Preset string             `yaml:"preset"`
	Script string             `yaml:"script"`
	Frames int                `yaml:"frames"`
	FPS    float64            `yaml:"fps"`
	Seed   int64              `yaml:"seed"`
	Params map[string]float64 `yaml:"params"`
	// Record keeps the run in the store.
	Record bool `yaml:"record"`
}

// StepResult pairs a step with its outcome. RunID is empty for steps that
// were not recorded.
type StepResult struct {
	Step   ScenarioStep
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// Resolve layers a step over base: preset first, then the step's own
// fields.
func (s ScenarioStep) Resolve(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if s.Effect != "" {
		cfg.Effect = s.Effect
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Effect, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s for %s", s.Preset, cfg.Effect)
		}
		cfg = p
	}
	if s.Script != "" {
		cfg.Script = s.Script
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.FPS > 0 {
		cfg.FPS = s.FPS
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. store may be nil when no step
// records.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		slog.Info("scenario step",
			"scenario", scenario.Name,
			"step", i+1,
			"of", len(scenario.Steps),
			"effect", cfg.Effect,
			"script", cfg.Script)

		exp := experiment.New(cfg)
		if err := exp.Setup(nil); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		params := map[string]float64{}
		if t, ok := exp.Runner().Effect().(field.Tunable); ok {
			for k, v := range step.Params {
				if err := t.SetParam(k, v); err != nil {
					return results, fmt.Errorf("step %d: %w", i+1, err)
				}
			}
			params = t.GetParams()
		}

		var rec *storage.Recorder
		if step.Record {
			if store == nil {
				return results, fmt.Errorf("step %d: recording needs a store", i+1)
			}
			rec, err = store.Create(storage.RunMetadata{
				Effect: cfg.Effect,
				Script: cfg.Script,
				Preset: step.Preset,
				Seed:   cfg.Seed,
				FPS:    cfg.FPS,
				Width:  cfg.Viewport.Width,
				Height: cfg.Viewport.Height,
				Params: params,
			})
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			exp.Runner().AddObserver(rec)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if rec != nil {
			if err := rec.Finish(result); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			sr.RunID = rec.ID()
		}
		results = append(results, sr)
	}

	return results, nil
}
