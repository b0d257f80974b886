package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/meshsim/internal/energy"
	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/mesh"
)

func newRunner(t *testing.T, script PointerScript, seed int64) *Runner {
	t.Helper()
	m, err := mesh.New(mesh.DefaultConfig(), rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	l, err := energy.NewListener(energy.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return New(m, l, script)
}

func testConfig() Config {
	return Config{Frames: 180, FPS: 60, Width: 800, Height: 600, ActiveThreshold: 0.5}
}

type countMetric struct {
	count  int
	energy float64
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(f *Frame) {
	c.count++
	c.energy += f.Input.Energy
}
func (c *countMetric) Value() float64 { return float64(c.count) }
func (c *countMetric) Reset()         { c.count, c.energy = 0, 0 }

type countSurface struct{ strokes int }

func (s *countSurface) Size() (float64, float64) { return 800, 600 }
func (s *countSurface) StrokeSegments([]field.Segment, field.Color, float64) {
	s.strokes++
}
func (s *countSurface) FillRects([]field.Rect, field.Color, float64)         {}
func (s *countSurface) FillCircle(_, _, _ float64, _ field.Color, _ float64) {}

func TestRunOrbit(t *testing.T) {
	r := newRunner(t, NewOrbit(800, 600), 1)
	metric := &countMetric{}
	r.AddMetric(metric)

	result, err := r.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Frames) != 180 {
		t.Fatalf("expected 180 frames, got %d", len(result.Frames))
	}
	if result.Metrics["count"] != 180 {
		t.Errorf("metric count = %v", result.Metrics["count"])
	}

	peak := 0
	for i, fs := range result.Frames {
		if fs.Frame != i {
			t.Fatalf("frame %d recorded as %d", i, fs.Frame)
		}
		if fs.Energy < 0 || fs.Energy > 1 {
			t.Fatalf("frame %d energy %v", i, fs.Energy)
		}
		if !fs.Present {
			t.Fatalf("frame %d: orbit pointer absent", i)
		}
		if fs.ActiveCount > peak {
			peak = fs.ActiveCount
		}
	}
	if peak == 0 {
		t.Error("orbit never activated any point")
	}
	if last := result.Frames[len(result.Frames)-1]; last.Energy < 0.99 {
		t.Errorf("energy after 3s of motion = %v", last.Energy)
	}
}

func TestRunIdleStaysAtRest(t *testing.T) {
	r := newRunner(t, Idle{}, 1)
	result, err := r.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, fs := range result.Frames {
		if fs.Energy != 0 || fs.MaxActivity != 0 || fs.Present {
			t.Fatalf("idle frame disturbed: %+v", fs)
		}
	}
}

func TestRunDwellSettles(t *testing.T) {
	r := newRunner(t, &Dwell{X: 400, Y: 300, Enter: 0.1, Leave: 1}, 1)
	cfg := testConfig()
	cfg.Frames = 600
	result, err := r.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	during := result.Frames[50]
	if !during.Present || during.MaxActivity <= 0 {
		t.Errorf("frame 50 = %+v, want pointer present and mesh displaced", during)
	}
	end := result.Frames[len(result.Frames)-1]
	if end.Present || end.Energy != 0 {
		t.Errorf("final frame = %+v, want pointer gone and energy 0", end)
	}
	if end.MaxActivity > 1e-3 {
		t.Errorf("mesh still displaced by %v after settling", end.MaxActivity)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	r := newRunner(t, Idle{}, 1)
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero frames", Config{Frames: 0, FPS: 60}},
		{"negative fps", Config{Frames: 10, FPS: -1}},
		{"negative viewport", Config{Frames: 10, FPS: 60, Width: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Run(context.Background(), tt.cfg)
			if !errors.Is(err, field.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	r := newRunner(t, NewOrbit(800, 600), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(result.Frames))
	}
}

func TestRunObserversAndSurface(t *testing.T) {
	r := newRunner(t, NewSweep(800, 600), 1)
	surf := &countSurface{}
	r.SetSurface(surf)

	seen := 0
	r.AddObserver(ObserverFunc(func(f *Frame) {
		if f.Index != seen {
			t.Errorf("observer saw frame %d, want %d", f.Index, seen)
		}
		if len(f.Activity) != 336 {
			t.Errorf("activity len = %d, want 336", len(f.Activity))
		}
		seen++
	}))

	if _, err := r.Run(context.Background(), testConfig()); err != nil {
		t.Fatal(err)
	}
	if seen != 180 {
		t.Errorf("observer called %d times", seen)
	}
	if surf.strokes < 180 {
		t.Errorf("surface saw %d strokes over 180 frames", surf.strokes)
	}
}

func TestEnsemble(t *testing.T) {
	factory := func(seed int64) (*Runner, error) {
		return newRunner(t, NewOrbit(800, 600), seed), nil
	}
	cfg := testConfig()
	cfg.Frames = 30

	results, err := NewEnsemble(factory, 4, 10).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, res := range results {
		if len(res.Frames) != 30 {
			t.Errorf("run %d: %d frames", i, len(res.Frames))
		}
	}

	failing := func(int64) (*Runner, error) { return nil, errors.New("boom") }
	if _, err := NewEnsemble(failing, 2, 0).Run(context.Background(), cfg); err == nil {
		t.Error("expected factory error")
	}
}

func TestScripts(t *testing.T) {
	o := NewOrbit(800, 600)
	for _, ts := range []float64{0, 1.3, 2.9} {
		p, ok := o.Event(ts)
		r := math.Hypot(p.X-400, p.Y-300)
		if !ok || math.Abs(r-200) > 1e-9 {
			t.Errorf("orbit at %v: %+v ok=%v radius %v", ts, p, ok, r)
		}
	}

	s := NewSweep(800, 600)
	if p, ok := s.Event(1.5); !ok || p.X != 400 || p.Y != 300 {
		t.Errorf("sweep mid pass = %+v, %v", p, ok)
	}
	if _, ok := s.Event(4); ok {
		t.Error("sweep present during rest half")
	}

	d := &Dwell{X: 1, Y: 2, Enter: 1, Leave: 2}
	tests := []struct {
		t  float64
		ok bool
	}{
		{0.5, false}, {1, true}, {1.9, true}, {2, false},
	}
	for _, tt := range tests {
		if _, ok := d.Event(tt.t); ok != tt.ok {
			t.Errorf("dwell at %v: ok=%v, want %v", tt.t, ok, tt.ok)
		}
	}

	if p, ok := (Idle{}).Event(3); ok || p.Present() {
		t.Error("idle reported a pointer")
	}
}

func TestSummarize(t *testing.T) {
	in := field.Input{Pointer: field.Pointer{X: 3, Y: 4}, Energy: 0.5, Time: 2}
	fs := Summarize(7, in, []float64{0, 1, 2, 5}, 0.5)
	if fs.Frame != 7 || fs.Time != 2 || !fs.Present || fs.PointerX != 3 {
		t.Errorf("header = %+v", fs)
	}
	if fs.MeanActivity != 2 || fs.MaxActivity != 5 || fs.ActiveCount != 3 {
		t.Errorf("stats = %+v", fs)
	}

	absent := Summarize(0, field.Input{Pointer: field.Absent}, nil, 0)
	if absent.Present || absent.PointerX != 0 || absent.MaxActivity != 0 {
		t.Errorf("absent = %+v", absent)
	}
}
