package mesh

import (
	"math"
	"math/rand"
)

// Stride layout of one grid point in Grid.data.
const (
	offX = iota
	offY
	offOX
	offOY
	offVX
	offVY
	stride
)

// Grid is the per-point state of the mesh: a flat buffer with a fixed stride
// of [x y ox oy vx vy] per point in row-major order, plus a parallel density
// buffer. Origins and densities never change between Initialize calls.
type Grid struct {
	spacing    float64
	cols, rows int
	data       []float64
	density    []float64
	rng        *rand.Rand
}

// NewGrid returns an empty grid. rng drives the density assignment.
func NewGrid(spacing float64, rng *rand.Rand) *Grid {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Grid{spacing: spacing, rng: rng}
}

// Initialize lays out ceil(w/spacing)+1 by ceil(h/spacing)+1 points at rest
// on a regular lattice and assigns fresh densities. Buffers are reused when
// they have enough capacity. A non-positive dimension yields an empty grid.
func (g *Grid) Initialize(width, height float64) {
	if width <= 0 || height <= 0 || g.spacing <= 0 {
		g.cols, g.rows = 0, 0
		g.data = g.data[:0]
		g.density = g.density[:0]
		return
	}

	g.cols = int(math.Ceil(width/g.spacing)) + 1
	g.rows = int(math.Ceil(height/g.spacing)) + 1
	n := g.cols * g.rows

	if cap(g.data) >= n*stride {
		g.data = g.data[:n*stride]
		g.density = g.density[:n]
	} else {
		g.data = make([]float64, n*stride)
		g.density = make([]float64, n)
	}

	i := 0
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			px := float64(x) * g.spacing
			py := float64(y) * g.spacing
			idx := i * stride
			g.data[idx+offX] = px
			g.data[idx+offY] = py
			g.data[idx+offOX] = px
			g.data[idx+offOY] = py
			g.data[idx+offVX] = 0
			g.data[idx+offVY] = 0
			g.density[i] = g.rng.Float64()
			i++
		}
	}
}

func (g *Grid) Cols() int        { return g.cols }
func (g *Grid) Rows() int        { return g.rows }
func (g *Grid) Len() int         { return g.cols * g.rows }
func (g *Grid) Spacing() float64 { return g.spacing }

func (g *Grid) Position(i int) (x, y float64) {
	idx := i * stride
	return g.data[idx+offX], g.data[idx+offY]
}

func (g *Grid) Origin(i int) (ox, oy float64) {
	idx := i * stride
	return g.data[idx+offOX], g.data[idx+offOY]
}

func (g *Grid) Velocity(i int) (vx, vy float64) {
	idx := i * stride
	return g.data[idx+offVX], g.data[idx+offVY]
}

func (g *Grid) Density(i int) float64 { return g.density[i] }

// Displacement is the distance of point i from its rest position.
func (g *Grid) Displacement(i int) float64 {
	idx := i * stride
	dx := g.data[idx+offX] - g.data[idx+offOX]
	dy := g.data[idx+offY] - g.data[idx+offOY]
	return math.Sqrt(dx*dx + dy*dy)
}

// Nudge adds an impulse to the velocity of point i.
func (g *Grid) Nudge(i int, vx, vy float64) {
	idx := i * stride
	g.data[idx+offVX] += vx
	g.data[idx+offVY] += vy
}

// Index returns the row-major index of lattice cell (col, row).
func (g *Grid) Index(col, row int) int { return row*g.cols + col }
