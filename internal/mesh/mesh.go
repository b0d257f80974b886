// Package mesh implements the reactive particle mesh: a lattice of points
// that are pushed away from the pointer and spring back to rest.
package mesh

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/meshsim/internal/field"
)

// Mesh owns a Grid and the reusable draw batches. It implements field.Effect.
type Mesh struct {
	cfg     Config
	grid    *Grid
	buckets [][]field.Segment
	majors  []field.Rect
	w, h    float64
}

var _ field.Effect = (*Mesh)(nil)

// New validates cfg and returns an empty mesh; call Resize to lay out points.
func New(cfg Config, rng *rand.Rand) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mesh config: %w", err)
	}
	return &Mesh{
		cfg:     cfg,
		grid:    NewGrid(cfg.Spacing, rng),
		buckets: make([][]field.Segment, cfg.Buckets),
	}, nil
}

func (m *Mesh) Name() string { return "mesh" }

// Resize reallocates the grid for a new viewport, discarding all motion.
func (m *Mesh) Resize(width, height float64) {
	m.w, m.h = width, height
	m.grid.Initialize(width, height)
}

// Reset re-initializes the grid at the current viewport.
func (m *Mesh) Reset() { m.Resize(m.w, m.h) }

func (m *Mesh) Grid() *Grid     { return m.grid }
func (m *Mesh) Config() *Config { return &m.cfg }

// Activity appends per-point displacement from origin.
func (m *Mesh) Activity(dst []float64) []float64 {
	for i := 0; i < m.grid.Len(); i++ {
		dst = append(dst, m.grid.Displacement(i))
	}
	return dst
}

// GetParams implements runtime tuning for hosts.
func (m *Mesh) GetParams() map[string]float64 { return m.cfg.GetParams() }

func (m *Mesh) SetParam(name string, value float64) error {
	return m.cfg.SetParam(name, value)
}
