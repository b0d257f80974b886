package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
)

// Runner steps one effect at a fixed frame rate, feeding it pointer events
// from a script through an energy listener.
type Runner struct {
	effect    field.Effect
	listener  *energy.Listener
	script    PointerScript
	surface   field.Surface
	metrics   []Metric
	observers []Observer
	log       *slog.Logger
}

func New(effect field.Effect, listener *energy.Listener, script PointerScript) *Runner {
	if script == nil {
		script = Idle{}
	}
	return &Runner{
		effect:    effect,
		listener:  listener,
		script:    script,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.Default(),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// SetSurface makes every frame draw onto s.
func (r *Runner) SetSurface(s field.Surface) { r.surface = s }

func (r *Runner) SetLogger(l *slog.Logger) { r.log = l }

func (r *Runner) Effect() field.Effect { return r.effect }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]FrameStats, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	r.effect.Resize(cfg.Width, cfg.Height)
	r.listener.Reset()
	r.log.Debug("run started",
		"effect", r.effect.Name(),
		"frames", cfg.Frames,
		"fps", cfg.FPS,
		"viewport", fmt.Sprintf("%gx%g", cfg.Width, cfg.Height))

	dt := 1 / cfg.FPS
	start := time.Now()
	var (
		activity []float64
		last     field.Pointer
		inside   bool
	)

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		t := float64(i) * dt
		p, ok := r.script.Event(t)
		switch {
		case ok && (!inside || p != last):
			r.listener.Move(p.X, p.Y)
		case !ok && inside:
			r.listener.Leave()
		}
		last, inside = p, ok

		r.listener.Advance(dt)
		in := r.listener.Input(t, dt)
		r.effect.Step(in)
		if r.surface != nil {
			r.effect.Draw(r.surface, in)
		}

		activity = r.effect.Activity(activity[:0])
		frame := Frame{
			Index:    i,
			Input:    in,
			Activity: activity,
			Stats:    Summarize(i, in, activity, cfg.ActiveThreshold),
		}

		for _, m := range r.metrics {
			m.Observe(&frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(&frame)
		}
		result.Frames = append(result.Frames, frame.Stats)
	}

	result.Elapsed = time.Since(start)
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r.log.Info("run finished",
		"effect", r.effect.Name(),
		"frames", len(result.Frames),
		"elapsed", result.Elapsed)
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return &field.ParamError{Name: "frames", Value: float64(cfg.Frames), Reason: "must be positive"}
	}
	if cfg.FPS <= 0 {
		return &field.ParamError{Name: "fps", Value: cfg.FPS, Reason: "must be positive"}
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return &field.ParamError{Name: "viewport", Value: min(cfg.Width, cfg.Height), Reason: "must not be negative"}
	}
	return nil
}
