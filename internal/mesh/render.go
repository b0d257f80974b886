package mesh

import (
	"math"

	"github.com/san-kum/meshsim/internal/field"
)

// Draw renders edges in phase buckets, major nodes in a single fill, and
// displaced nodes as glowing circles while the mesh is energized.
func (m *Mesh) Draw(s field.Surface, in field.Input) {
	if s == nil || m.grid.Len() == 0 {
		return
	}
	m.drawEdges(s, in)
	m.drawMajors(s)
	if in.Energy > m.cfg.EnergyEpsilon {
		m.drawActive(s, in)
	}
}

func (m *Mesh) drawEdges(s field.Surface, in field.Input) {
	g := m.grid
	cfg := &m.cfg
	radiusSq := cfg.Radius * cfg.Radius
	energized := in.Energy > cfg.EnergyEpsilon

	for j := range m.buckets {
		m.buckets[j] = m.buckets[j][:0]
	}

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			i := row*g.cols + col
			px, py := g.Position(i)
			active := energized && in.Pointer.DistSq(px, py) < radiusSq
			if g.density[i] <= cfg.Sparsity && !active {
				continue
			}
			b := i % len(m.buckets)
			if col < g.cols-1 {
				rx, ry := g.Position(i + 1)
				m.buckets[b] = append(m.buckets[b], field.Segment{X0: px, Y0: py, X1: rx, Y1: ry})
			}
			if row < g.rows-1 {
				dx, dy := g.Position(i + g.cols)
				m.buckets[b] = append(m.buckets[b], field.Segment{X0: px, Y0: py, X1: dx, Y1: dy})
			}
		}
	}

	for j, segs := range m.buckets {
		if len(segs) == 0 {
			continue
		}
		s.StrokeSegments(segs, cfg.Dormant, m.BucketAlpha(j, in.Time))
	}
}

// BucketAlpha is the breathing opacity of edge bucket j at time t.
func (m *Mesh) BucketAlpha(j int, t float64) float64 {
	cfg := &m.cfg
	phase := float64(j) * 2 * math.Pi / float64(len(m.buckets))
	return field.Clamp01(cfg.BaseAlpha + math.Sin(t*cfg.BreathRate+phase)*cfg.AlphaSwing)
}

func (m *Mesh) drawMajors(s field.Surface) {
	g := m.grid
	m.majors = m.majors[:0]
	for i := 0; i < g.Len(); i++ {
		if g.density[i] > m.cfg.MajorThreshold {
			x, y := g.Position(i)
			m.majors = append(m.majors, field.Rect{X: x - 1, Y: y - 1, W: 2, H: 2})
		}
	}
	if len(m.majors) > 0 {
		s.FillRects(m.majors, m.cfg.Active, m.cfg.MajorAlpha)
	}
}

func (m *Mesh) drawActive(s field.Surface, in field.Input) {
	g := m.grid
	cfg := &m.cfg
	for i := 0; i < g.Len(); i++ {
		disp := g.Displacement(i)
		if disp <= cfg.DisplacementThreshold {
			continue
		}
		intensity := math.Min(disp/cfg.IntensityScale, 1)
		x, y := g.Position(i)
		s.FillCircle(x, y, 1+intensity*2, cfg.Active.Lerp(cfg.Hot, intensity), intensity*in.Energy)
	}
}
