package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/meshsim/internal/sim"
)

// SweepPoint is the outcome of one run in a parameter sweep.
type SweepPoint struct {
	Param   float64
	Metrics map[string]float64
}

// ParamSweep builds a fresh runner for each parameter value with build and
// records the run metrics. Values are swept in order.
func ParamSweep(
	ctx context.Context,
	build func(value float64) (*sim.Runner, error),
	paramMin, paramMax float64,
	steps int,
	cfg sim.Config,
) ([]SweepPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", steps)
	}
	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := paramMin
		if steps > 1 {
			value = paramMin + (paramMax-paramMin)*float64(i)/float64(steps-1)
		}
		r, err := build(value)
		if err != nil {
			return points, fmt.Errorf("param %g: %w", value, err)
		}
		res, err := r.Run(ctx, cfg)
		if err != nil {
			return points, fmt.Errorf("param %g: %w", value, err)
		}
		points = append(points, SweepPoint{Param: value, Metrics: res.Metrics})
	}
	return points, nil
}
