package mesh

import (
	"math"
	"testing"

	"github.com/san-kum/meshsim/internal/field"
)

func expectedSegments(m *Mesh, in field.Input) int {
	g := m.grid
	r2 := m.cfg.Radius * m.cfg.Radius
	n := 0
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			i := g.Index(col, row)
			px, py := g.Position(i)
			active := in.Energy > m.cfg.EnergyEpsilon && in.Pointer.DistSq(px, py) < r2
			if g.density[i] <= m.cfg.Sparsity && !active {
				continue
			}
			if col < g.cols-1 {
				n++
			}
			if row < g.rows-1 {
				n++
			}
		}
	}
	return n
}

func TestDrawNilSurface(t *testing.T) {
	m := newTestMesh(t, 800, 600)
	m.Draw(nil, field.Input{Energy: 1, Pointer: field.Pointer{X: 10, Y: 10}})
}

func TestDrawEmptyGrid(t *testing.T) {
	m := newTestMesh(t, 0, 0)
	rec := &recorder{}
	m.Draw(rec, field.Input{Energy: 1})
	if len(rec.strokes)+len(rec.fills)+len(rec.circles) != 0 {
		t.Errorf("empty grid produced draw calls: %+v", rec)
	}
}

func TestDrawDormantBuckets(t *testing.T) {
	m := newTestMesh(t, 800, 600)
	rec := &recorder{}
	in := field.Input{Pointer: field.Absent, Time: 1.3}
	m.Draw(rec, in)

	if len(rec.strokes) == 0 || len(rec.strokes) > m.cfg.Buckets {
		t.Fatalf("expected 1..%d stroke batches, got %d", m.cfg.Buckets, len(rec.strokes))
	}
	if got, want := rec.segmentCount(), expectedSegments(m, in); got != want {
		t.Errorf("segments = %d, want %d", got, want)
	}
	if len(rec.strokes) == m.cfg.Buckets {
		for j, s := range rec.strokes {
			if s.color != m.cfg.Dormant {
				t.Errorf("bucket %d color %+v", j, s.color)
			}
			if want := m.BucketAlpha(j, in.Time); s.alpha != want {
				t.Errorf("bucket %d alpha %v, want %v", j, s.alpha, want)
			}
		}
	}
	if len(rec.circles) != 0 {
		t.Errorf("dormant mesh drew %d active nodes", len(rec.circles))
	}
}

func TestDrawRevealsStructureNearPointer(t *testing.T) {
	m := newTestMesh(t, 800, 600)
	dormant := &recorder{}
	m.Draw(dormant, field.Input{Pointer: field.Absent})

	in := field.Input{Pointer: field.Pointer{X: 400, Y: 300}, Energy: 1}
	active := &recorder{}
	m.Draw(active, in)

	if got, want := active.segmentCount(), expectedSegments(m, in); got != want {
		t.Errorf("segments = %d, want %d", got, want)
	}
	if active.segmentCount() <= dormant.segmentCount() {
		t.Errorf("pointer did not reveal extra edges: %d <= %d", active.segmentCount(), dormant.segmentCount())
	}
}

func TestDrawMajorNodesSingleFill(t *testing.T) {
	m := newTestMesh(t, 800, 600)
	want := 0
	for i := 0; i < m.grid.Len(); i++ {
		if m.grid.Density(i) > m.cfg.MajorThreshold {
			want++
		}
	}
	rec := &recorder{}
	m.Draw(rec, field.Input{Pointer: field.Absent})

	if want == 0 {
		if len(rec.fills) != 0 {
			t.Fatalf("unexpected fill with no major nodes")
		}
		return
	}
	if len(rec.fills) != 1 {
		t.Fatalf("expected one batched fill, got %d", len(rec.fills))
	}
	if len(rec.fills[0]) != want {
		t.Errorf("major nodes = %d, want %d", len(rec.fills[0]), want)
	}
	for _, r := range rec.fills[0] {
		if r.W != 2 || r.H != 2 {
			t.Fatalf("major node size %vx%v", r.W, r.H)
		}
	}
}

func TestDrawActiveNodes(t *testing.T) {
	m := newTestMesh(t, 800, 600)
	pointer := field.Pointer{X: 410, Y: 310}
	for f := 0; f < 3; f++ {
		m.Step(field.Input{Pointer: pointer, Energy: 1})
	}

	idle := &recorder{}
	m.Draw(idle, field.Input{Pointer: pointer, Energy: 0})
	if len(idle.circles) != 0 {
		t.Errorf("active nodes drawn at zero energy")
	}

	rec := &recorder{}
	m.Draw(rec, field.Input{Pointer: pointer, Energy: 0.5})
	if len(rec.circles) == 0 {
		t.Fatal("expected glowing nodes after repulsion")
	}
	for _, c := range rec.circles {
		if c.r < 1 || c.r > 3 {
			t.Errorf("radius %v outside [1,3]", c.r)
		}
		if c.alpha <= 0 || c.alpha > 0.5 {
			t.Errorf("alpha %v outside (0, energy]", c.alpha)
		}
	}
}

func TestBucketAlphaPhases(t *testing.T) {
	m := newTestMesh(t, 100, 100)
	if got := m.BucketAlpha(0, 0); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("BucketAlpha(0,0) = %v, want 0.15", got)
	}
	seen := map[float64]bool{}
	for j := 0; j < m.cfg.Buckets; j++ {
		a := m.BucketAlpha(j, 0.7)
		if a < 0.1-1e-12 || a > 0.2+1e-12 {
			t.Errorf("bucket %d alpha %v outside [0.1, 0.2]", j, a)
		}
		seen[a] = true
	}
	if len(seen) != m.cfg.Buckets {
		t.Errorf("expected distinct phases per bucket, got %d distinct", len(seen))
	}
}
