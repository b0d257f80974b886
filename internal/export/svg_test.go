package export

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/mesh"
	"github.com/san-kum/meshsim/internal/sim"
)

func TestSVGSurfaceBatches(t *testing.T) {
	s := NewSVGSurface(100, 50, field.RGB(0, 0, 0))
	s.StrokeSegments([]field.Segment{{X0: 0, Y0: 0, X1: 10, Y1: 10}, {X0: 5, Y0: 5, X1: 20, Y1: 5}}, field.RGB(255, 0, 0), 0.5)
	s.StrokeSegments([]field.Segment{{X0: math.Inf(-1), Y0: 0, X1: 1, Y1: 1}}, field.RGB(255, 0, 0), 0.5)
	s.FillRects([]field.Rect{{X: 1, Y: 1, W: 2, H: 2}}, field.RGB(0, 255, 0), 1)
	s.FillCircle(50, 25, 3, field.RGB(0, 0, 255), 2)

	out := s.String()
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("paths = %d, want 2", got)
	}
	if !strings.Contains(out, `fill-opacity="1.000"`) {
		t.Error("circle alpha should be clamped to 1")
	}
	if !strings.HasSuffix(out, "</svg>\n") || !strings.Contains(out, `width="100"`) {
		t.Error("malformed document")
	}
}

func TestSVGSurfaceMesh(t *testing.T) {
	m, err := mesh.New(mesh.DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	m.Resize(400, 300)
	in := field.Input{Pointer: field.Pointer{X: 200, Y: 150}, Energy: 1, Dt: 1.0 / 60}
	for i := 0; i < 10; i++ {
		m.Step(in)
	}
	s := NewSVGSurface(400, 300, field.RGB(2, 6, 23))
	m.Draw(s, in)
	var b strings.Builder
	if _, err := s.WriteTo(&b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "<path") {
		t.Error("mesh drew no edges")
	}
}

func TestPointerTrailBreaks(t *testing.T) {
	frames := []sim.FrameStats{
		{Present: true, PointerX: 0, PointerY: 0, Energy: 1},
		{Present: true, PointerX: 10, PointerY: 0, Energy: 1},
		{Present: false},
		{Present: true, PointerX: 50, PointerY: 50},
		{Present: true, PointerX: 60, PointerY: 50},
		{Present: true, PointerX: 70, PointerY: 50},
	}
	out := PointerTrailSVG(frames, 100, 100, field.RGB(34, 211, 238))
	if got := strings.Count(out, "<line"); got != 3 {
		t.Errorf("lines = %d, want 3", got)
	}
	if strings.Contains(out, `x1="10.0" y1="0.0" x2="50.0"`) {
		t.Error("trail bridged an absent gap")
	}
}
