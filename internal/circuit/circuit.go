// Package circuit moves travelers along a square grid like signals on a
// circuit board. Travelers near the pointer surge and tether to it.
package circuit

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/meshsim/internal/field"
)

type Traveler struct {
	X, Y   float64
	VX, VY float64
	Surge  float64 // 0 outside the surge radius, rising to 1 at the pointer

	trail []field.Segment
}

type Board struct {
	cfg       Config
	rng       *rand.Rand
	travelers []Traveler
	w, h      float64

	trails  []field.Segment
	normal  []field.Rect
	surging []field.Rect
}

func New(cfg Config, rng *rand.Rand) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("circuit config: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Board{cfg: cfg, rng: rng}, nil
}

func (b *Board) Name() string { return "circuit" }

// Resize drops every traveler and fills the new viewport.
func (b *Board) Resize(width, height float64) {
	b.travelers = b.travelers[:0]
	b.w, b.h = 0, 0
	if !(width > 0) || !(height > 0) {
		return
	}
	b.w, b.h = width, height
	for i := 0; i < b.cfg.MaxTravelers; i++ {
		var t Traveler
		b.spawn(&t)
		b.travelers = append(b.travelers, t)
	}
}

func (b *Board) Travelers() []Traveler { return b.travelers }
func (b *Board) Config() *Config       { return &b.cfg }

// spawn places t on a random grid intersection inside the viewport heading
// along a random axis.
func (b *Board) spawn(t *Traveler) {
	g := b.cfg.GridSize
	cols := math.Max(1, math.Floor(b.w/g))
	rows := math.Max(1, math.Floor(b.h/g))
	t.X = math.Floor(b.rng.Float64()*cols) * g
	t.Y = math.Floor(b.rng.Float64()*rows) * g
	t.VX, t.VY = 0, 0
	if b.rng.Float64() > 0.5 {
		t.VX = b.direction()
	} else {
		t.VY = b.direction()
	}
	t.Surge = 0
	t.trail = t.trail[:0]
}

func (b *Board) direction() float64 {
	if b.rng.Float64() > 0.5 {
		return b.cfg.Speed
	}
	return -b.cfg.Speed
}

func (b *Board) Step(in field.Input) {
	cfg := &b.cfg
	for i := range b.travelers {
		t := &b.travelers[i]

		mult := 1.0
		t.Surge = 0
		if d := math.Sqrt(in.Pointer.DistSq(t.X, t.Y)); d < cfg.SurgeRadius {
			mult = cfg.SurgeFactor
			t.Surge = 1 - d/cfg.SurgeRadius
		}

		x0, y0 := t.X, t.Y
		t.X += t.VX * mult
		t.Y += t.VY * mult

		if line, ok := crossed(x0, t.X, cfg.GridSize); ok && t.VX != 0 {
			b.maybeTurn(t, line, true)
		} else if line, ok := crossed(y0, t.Y, cfg.GridSize); ok && t.VY != 0 {
			b.maybeTurn(t, line, false)
		}

		if t.X < 0 || t.X > b.w || t.Y < 0 || t.Y > b.h {
			b.spawn(t)
			continue
		}

		if cfg.TrailLength > 0 {
			t.trail = append(t.trail, field.Segment{X0: x0, Y0: y0, X1: t.X, Y1: t.Y})
			if n := len(t.trail); n > cfg.TrailLength {
				t.trail = append(t.trail[:0], t.trail[n-cfg.TrailLength:]...)
			}
		}
	}
}

// crossed reports the grid line passed when moving from p0 to p1. Landing on
// a line counts; leaving the line p0 sits on does not.
func crossed(p0, p1, g float64) (float64, bool) {
	switch {
	case p1 > p0:
		line := (math.Floor(p0/g) + 1) * g
		return line, line <= p1
	case p1 < p0:
		line := (math.Ceil(p0/g) - 1) * g
		return line, line >= p1
	}
	return 0, false
}

// maybeTurn rotates t by 90 degrees at an intersection, snapping it onto the
// line so it stays grid-locked.
func (b *Board) maybeTurn(t *Traveler, line float64, horizontal bool) {
	if b.rng.Float64() >= b.cfg.TurnChance {
		return
	}
	if horizontal {
		t.X = line
		t.VX, t.VY = 0, b.direction()
	} else {
		t.Y = line
		t.VX, t.VY = b.direction(), 0
	}
}

// Draw renders trails in one batch, heads in one batch per color, and a
// tether from the pointer to each surging traveler.
func (b *Board) Draw(s field.Surface, in field.Input) {
	if s == nil || len(b.travelers) == 0 {
		return
	}
	cfg := &b.cfg
	b.trails = b.trails[:0]
	b.normal = b.normal[:0]
	b.surging = b.surging[:0]

	for i := range b.travelers {
		t := &b.travelers[i]
		b.trails = append(b.trails, t.trail...)
		head := field.Rect{X: t.X, Y: t.Y, W: cfg.HeadSize, H: cfg.HeadSize}
		if t.Surge > 0 {
			b.surging = append(b.surging, head)
		} else {
			b.normal = append(b.normal, head)
		}
	}

	if len(b.trails) > 0 {
		s.StrokeSegments(b.trails, cfg.Color, cfg.TrailAlpha)
	}
	if len(b.normal) > 0 {
		s.FillRects(b.normal, cfg.Color, 1)
	}
	if len(b.surging) > 0 {
		s.FillRects(b.surging, cfg.Surge, 1)
	}

	if !in.Pointer.Present() {
		return
	}
	for i := range b.travelers {
		t := &b.travelers[i]
		if t.Surge <= 0 {
			continue
		}
		tether := [1]field.Segment{{X0: in.Pointer.X, Y0: in.Pointer.Y, X1: t.X, Y1: t.Y}}
		s.StrokeSegments(tether[:], cfg.Surge, cfg.TetherAlpha*t.Surge)
	}
}

// Activity reports how strongly each traveler is surging.
func (b *Board) Activity(dst []float64) []float64 {
	for i := range b.travelers {
		dst = append(dst, b.travelers[i].Surge)
	}
	return dst
}

func (b *Board) GetParams() map[string]float64 { return b.cfg.GetParams() }

// SetParam changes a parameter. A new speed applies to travelers as they
// respawn or turn.
func (b *Board) SetParam(name string, value float64) error {
	return b.cfg.SetParam(name, value)
}
