// Package optim searches effect parameters for the best run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/sim"
)

var ErrNoCandidates = errors.New("optim: no parameter combination could run")

// Candidate is one evaluated point of the grid.
type Candidate struct {
	Params map[string]float64
	Score  float64
}

// GridSearch evaluates every combination of the given parameter values and
// keeps the one with the lowest metric. Maximize flips the order.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

// NewGridSearch takes a value list per parameter. Names are sorted so the
// visiting order is stable.
func NewGridSearch(ranges map[string][]float64) *GridSearch {
	names := make([]string, 0, len(ranges))
	for name := range ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	g := &GridSearch{paramNames: names}
	for _, name := range names {
		g.ranges = append(g.ranges, ranges[name])
	}
	return g
}

// Size is the number of combinations Search will run.
func (g *GridSearch) Size() int {
	if len(g.ranges) == 0 {
		return 0
	}
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs build for every combination, applies the parameters through
// field.Tunable and scores the run by metricName. Combinations the effect
// rejects are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	build func() (*sim.Runner, error),
	cfg sim.Config,
	metricName string,
) (Candidate, []Candidate, error) {
	best := Candidate{Score: math.Inf(1)}
	if g.Maximize {
		best.Score = math.Inf(-1)
	}
	all := make([]Candidate, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		r, err := build()
		if err != nil {
			return err
		}
		t, ok := r.Effect().(field.Tunable)
		if !ok {
			return fmt.Errorf("%s has no tunable parameters", r.Effect().Name())
		}
		for k, v := range params {
			if err := t.SetParam(k, v); err != nil {
				return nil
			}
		}
		result, err := r.Run(ctx, cfg)
		if err != nil {
			return err
		}
		score, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric %q", metricName)
		}

		c := Candidate{Params: params, Score: score}
		all = append(all, c)
		if (g.Maximize && score > best.Score) || (!g.Maximize && score < best.Score) {
			best = c
		}
		return nil
	})
	if err != nil {
		return Candidate{}, all, err
	}
	if best.Params == nil {
		return Candidate{}, all, ErrNoCandidates
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}
