// Package hexgrid is a sonar-style hexagon lattice. Hexes under the pointer
// light up and fade back; idle hexes occasionally pulse on their own.
package hexgrid

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/meshsim/internal/field"
)

// Cell is one hexagon of the lattice.
type Cell struct {
	X, Y    float64
	Opacity float64
	Pulsing bool
	Phase   float64
	Speed   float64
}

type Field struct {
	cfg   Config
	rng   *rand.Rand
	cells []Cell
	cols  int
	rows  int

	outline [6][2]float64
	levels  [][]field.Segment
}

func New(cfg Config, rng *rand.Rand) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hexgrid config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	f := &Field{cfg: cfg, rng: rng, levels: make([][]field.Segment, cfg.Levels+1)}
	for i := range f.outline {
		a := math.Pi/3*float64(i) + math.Pi/6
		f.outline[i] = [2]float64{cfg.Radius * math.Cos(a), cfg.Radius * math.Sin(a)}
	}
	return f, nil
}

func (f *Field) Name() string { return "hexgrid" }

func (f *Field) spacing() (xs, ys float64) {
	return math.Sqrt(3) * f.cfg.Radius, 1.5 * f.cfg.Radius
}

// Resize lays out a pointy-top lattice covering the viewport with one spare
// ring on every side. Odd rows shift right by half a hex.
func (f *Field) Resize(width, height float64) {
	f.cells = f.cells[:0]
	f.cols, f.rows = 0, 0
	if !(width > 0) || !(height > 0) {
		return
	}
	xs, ys := f.spacing()
	hexH := 2 * f.cfg.Radius
	f.cols = int(math.Ceil(width/xs)) + 2
	f.rows = int(math.Ceil(height/ys)) + 2
	for row := 0; row < f.rows; row++ {
		xOff := float64(row%2) * xs / 2
		for col := 0; col < f.cols; col++ {
			f.cells = append(f.cells, Cell{
				X:       float64(col)*xs + xOff - xs,
				Y:       float64(row)*ys - hexH,
				Opacity: f.cfg.BaseOpacity,
				Speed:   f.cfg.PulseSpeedMin + f.rng.Float64()*f.cfg.PulseSpeedSpread,
			})
		}
	}
}

func (f *Field) Cols() int       { return f.cols }
func (f *Field) Rows() int       { return f.rows }
func (f *Field) Cells() []Cell   { return f.cells }
func (f *Field) Config() *Config { return &f.cfg }

func (f *Field) Step(in field.Input) {
	cfg := &f.cfg
	base := cfg.BaseOpacity
	hoverSq := cfg.HoverRadius * cfg.HoverRadius

	for i := range f.cells {
		c := &f.cells[i]

		if in.Pointer.DistSq(c.X, c.Y) < hoverSq {
			c.Opacity = cfg.ActiveOpacity
			c.Pulsing = false
		} else if c.Opacity > base {
			c.Opacity *= cfg.Decay
			if c.Opacity < base+0.01 {
				c.Opacity = base
			}
		} else if c.Opacity < base && !c.Pulsing {
			c.Opacity = base
		}

		if !c.Pulsing && c.Opacity <= base+0.01 && f.rng.Float64() < cfg.PulseProbability {
			c.Pulsing = true
			c.Phase = 0
		}

		if c.Pulsing {
			c.Phase += c.Speed
			if c.Phase >= math.Pi {
				c.Pulsing = false
				c.Opacity = base
			} else {
				c.Opacity = base + (cfg.PulseOpacity-base)*math.Sin(c.Phase)
			}
		}
	}
}

// level quantizes how far above base a cell glows. Level 0 is the resting
// state.
func (f *Field) level(c *Cell) int {
	cfg := &f.cfg
	if c.Opacity <= cfg.BaseOpacity+0.001 && !c.Pulsing {
		return 0
	}
	t := field.Clamp01((c.Opacity - cfg.BaseOpacity) / (cfg.ActiveOpacity - cfg.BaseOpacity))
	return int(math.Ceil(t * float64(cfg.Levels)))
}

// Draw strokes resting hexes in one batch and lit hexes in one batch per
// opacity level.
func (f *Field) Draw(s field.Surface, _ field.Input) {
	if s == nil || len(f.cells) == 0 {
		return
	}
	for k := range f.levels {
		f.levels[k] = f.levels[k][:0]
	}
	for i := range f.cells {
		c := &f.cells[i]
		k := f.level(c)
		f.levels[k] = f.appendOutline(f.levels[k], c.X, c.Y)
	}

	cfg := &f.cfg
	for k, segs := range f.levels {
		if len(segs) == 0 {
			continue
		}
		if k == 0 {
			s.StrokeSegments(segs, cfg.Base, cfg.BaseOpacity)
			continue
		}
		t := float64(k) / float64(cfg.Levels)
		alpha := cfg.BaseOpacity + (cfg.ActiveOpacity-cfg.BaseOpacity)*t
		s.StrokeSegments(segs, cfg.Base.Lerp(cfg.Active, t), alpha)
	}
}

func (f *Field) appendOutline(dst []field.Segment, x, y float64) []field.Segment {
	for i := range f.outline {
		a, b := f.outline[i], f.outline[(i+1)%len(f.outline)]
		dst = append(dst, field.Segment{X0: x + a[0], Y0: y + a[1], X1: x + b[0], Y1: y + b[1]})
	}
	return dst
}

// Activity reports each hex's glow above the resting opacity.
func (f *Field) Activity(dst []float64) []float64 {
	for i := range f.cells {
		dst = append(dst, math.Max(0, f.cells[i].Opacity-f.cfg.BaseOpacity))
	}
	return dst
}

func (f *Field) GetParams() map[string]float64 { return f.cfg.GetParams() }

func (f *Field) SetParam(name string, value float64) error {
	return f.cfg.SetParam(name, value)
}
