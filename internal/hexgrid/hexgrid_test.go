package hexgrid

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/meshsim/internal/field"
)

type stroke struct {
	n     int
	color field.Color
	alpha float64
}

type recorder struct{ strokes []stroke }

func (r *recorder) Size() (float64, float64) { return 800, 600 }
func (r *recorder) StrokeSegments(segs []field.Segment, c field.Color, alpha float64) {
	r.strokes = append(r.strokes, stroke{n: len(segs), color: c, alpha: alpha})
}
func (r *recorder) FillRects([]field.Rect, field.Color, float64)         {}
func (r *recorder) FillCircle(_, _, _ float64, _ field.Color, _ float64) {}

func newField(t *testing.T, mutate func(*Config)) *Field {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PulseProbability = 0
	if mutate != nil {
		mutate(&cfg)
	}
	f, err := New(cfg, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.Resize(800, 600)
	return f
}

func TestResizeLayout(t *testing.T) {
	f := newField(t, nil)
	if f.Cols() != 21 || f.Rows() != 18 {
		t.Fatalf("cols, rows = %d, %d, want 21, 18", f.Cols(), f.Rows())
	}
	if len(f.Cells()) != 21*18 {
		t.Fatalf("cells = %d", len(f.Cells()))
	}

	xs := math.Sqrt(3) * 25
	first := f.Cells()[0]
	if math.Abs(first.X+xs) > 1e-9 || first.Y != -50 {
		t.Errorf("first cell at (%v, %v), want (%v, -50)", first.X, first.Y, -xs)
	}
	odd := f.Cells()[f.Cols()]
	if math.Abs(odd.X-(xs/2-xs)) > 1e-9 || odd.Y != -12.5 {
		t.Errorf("odd row starts at (%v, %v)", odd.X, odd.Y)
	}
	for i, c := range f.Cells() {
		if c.Opacity != 0.1 || c.Pulsing {
			t.Fatalf("cell %d not at rest: %+v", i, c)
		}
		if c.Speed < 0.02 || c.Speed >= 0.05 {
			t.Fatalf("cell %d pulse speed %v outside [0.02, 0.05)", i, c.Speed)
		}
	}
}

func TestResizeZeroViewport(t *testing.T) {
	f := newField(t, nil)
	f.Resize(0, 300)
	if len(f.Cells()) != 0 {
		t.Fatalf("cells = %d, want 0", len(f.Cells()))
	}
	f.Step(field.Input{Pointer: field.Pointer{X: 1, Y: 1}})
	f.Draw(&recorder{}, field.Input{})
}

func TestHoverLightsAndDecays(t *testing.T) {
	f := newField(t, nil)
	p := field.Pointer{X: 400, Y: 300}
	f.Step(field.Input{Pointer: p})

	lit := 0
	for _, c := range f.Cells() {
		near := p.DistSq(c.X, c.Y) < 150*150
		if near {
			lit++
			if c.Opacity != 1 {
				t.Fatalf("hovered cell opacity %v, want 1", c.Opacity)
			}
		} else if c.Opacity != 0.1 {
			t.Fatalf("far cell opacity %v, want 0.1", c.Opacity)
		}
	}
	if lit == 0 {
		t.Fatal("no cells lit under the pointer")
	}

	f.Step(field.Input{Pointer: field.Absent})
	for _, c := range f.Cells() {
		if c.Opacity > 0.95+1e-12 {
			t.Fatalf("opacity %v did not decay", c.Opacity)
		}
	}
	for i := 0; i < 60; i++ {
		f.Step(field.Input{Pointer: field.Absent})
	}
	for _, c := range f.Cells() {
		if c.Opacity != 0.1 {
			t.Fatalf("opacity %v did not settle at base", c.Opacity)
		}
	}
}

func TestPulse(t *testing.T) {
	f := newField(t, func(c *Config) { c.PulseProbability = 1 })
	f.Step(field.Input{Pointer: field.Absent})
	for _, c := range f.Cells() {
		if !c.Pulsing {
			t.Fatal("cell did not start pulsing")
		}
		if c.Opacity <= 0.1 || c.Opacity > 0.6 {
			t.Fatalf("pulse opacity %v outside (0.1, 0.6]", c.Opacity)
		}
	}

	f.Step(field.Input{Pointer: field.Pointer{X: 400, Y: 300}})
	for _, c := range f.Cells() {
		if c.Opacity == 1 && c.Pulsing {
			t.Fatal("hover did not cancel the pulse")
		}
	}
}

func TestPulseEnds(t *testing.T) {
	f := newField(t, func(c *Config) { c.PulseProbability = 1 })
	f.Step(field.Input{Pointer: field.Absent})
	f.cfg.PulseProbability = 0
	for i := 0; i < 200; i++ {
		f.Step(field.Input{Pointer: field.Absent})
	}
	for _, c := range f.Cells() {
		if c.Pulsing || c.Opacity != 0.1 {
			t.Fatalf("pulse never finished: %+v", c)
		}
	}
}

func TestDrawBatches(t *testing.T) {
	f := newField(t, nil)

	rec := &recorder{}
	f.Draw(rec, field.Input{})
	if len(rec.strokes) != 1 {
		t.Fatalf("resting grid drew %d batches, want 1", len(rec.strokes))
	}
	if s := rec.strokes[0]; s.n != 6*len(f.Cells()) || s.color != f.cfg.Base || s.alpha != 0.1 {
		t.Errorf("resting batch = %+v", s)
	}

	f.Step(field.Input{Pointer: field.Pointer{X: 400, Y: 300}})
	rec = &recorder{}
	f.Draw(rec, field.Input{})
	if len(rec.strokes) != 2 {
		t.Fatalf("drew %d batches, want base and lit", len(rec.strokes))
	}
	top := rec.strokes[1]
	if top.color != f.cfg.Active || math.Abs(top.alpha-1) > 1e-12 {
		t.Errorf("lit batch = %+v, want active color at alpha 1", top)
	}
	total := rec.strokes[0].n + top.n
	if total != 6*len(f.Cells()) {
		t.Errorf("segments = %d, want %d", total, 6*len(f.Cells()))
	}

	f.Draw(nil, field.Input{})
}

func TestActivity(t *testing.T) {
	f := newField(t, nil)
	f.Step(field.Input{Pointer: field.Pointer{X: 400, Y: 300}})
	act := f.Activity(nil)
	if len(act) != len(f.Cells()) {
		t.Fatalf("activity len = %d", len(act))
	}
	peak := 0.0
	for _, a := range act {
		peak = math.Max(peak, a)
	}
	if math.Abs(peak-0.9) > 1e-12 {
		t.Errorf("peak activity = %v, want 0.9", peak)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"radius", func(c *Config) { c.Radius = 0 }},
		{"decay", func(c *Config) { c.Decay = 1 }},
		{"levels", func(c *Config) { c.Levels = 0 }},
		{"opacity order", func(c *Config) { c.ActiveOpacity = 0.05 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, field.ErrParameterBounds) {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestSetParam(t *testing.T) {
	f := newField(t, nil)
	if err := f.SetParam("decay", 0.8); err != nil {
		t.Fatal(err)
	}
	if err := f.SetParam("decay", 1.5); err == nil {
		t.Error("accepted decay 1.5")
	}
	if err := f.SetParam("bogus", 1); err == nil {
		t.Error("accepted unknown parameter")
	}
	if f.GetParams()["decay"] != 0.8 {
		t.Errorf("decay = %v", f.GetParams()["decay"])
	}
}
