package viz

import (
	"math"

	"github.com/san-kum/meshsim/internal/field"
)

// Terminal cells are treated as 8x16 px, so one braille dot is 4x4 px.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
	dotPx      = 4.0
)

// CanvasSurface lets effects draw in pixel space onto a braille canvas.
type CanvasSurface struct {
	canvas *Canvas
}

func NewCanvasSurface(c *Canvas) *CanvasSurface {
	return &CanvasSurface{canvas: c}
}

func (s *CanvasSurface) Canvas() *Canvas { return s.canvas }

func (s *CanvasSurface) Size() (w, h float64) {
	return float64(s.canvas.Width) * CellWidth, float64(s.canvas.Height) * CellHeight
}

func toDot(v float64) int { return int(math.Floor(v / dotPx)) }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *CanvasSurface) StrokeSegments(segs []field.Segment, c field.Color, alpha float64) {
	dw, dh := s.canvas.DotSize()
	for _, sg := range segs {
		if !finite(sg.X0, sg.Y0, sg.X1, sg.Y1) {
			continue
		}
		x0, y0, x1, y1 := toDot(sg.X0), toDot(sg.Y0), toDot(sg.X1), toDot(sg.Y1)
		if max(x0, x1) < 0 || max(y0, y1) < 0 || min(x0, x1) >= dw || min(y0, y1) >= dh {
			continue
		}
		s.canvas.DrawLine(x0, y0, x1, y1, c, alpha)
	}
}

func (s *CanvasSurface) FillRects(rects []field.Rect, c field.Color, alpha float64) {
	for _, r := range rects {
		if !finite(r.X, r.Y, r.W, r.H) {
			continue
		}
		x0, y0 := toDot(r.X), toDot(r.Y)
		x1, y1 := max(x0, toDot(r.X+r.W-1e-9)), max(y0, toDot(r.Y+r.H-1e-9))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				s.canvas.Paint(x, y, c, alpha)
			}
		}
	}
}

// FillCircle fills every dot whose center lies inside the circle, and at
// least the dot under its center.
func (s *CanvasSurface) FillCircle(cx, cy, r float64, c field.Color, alpha float64) {
	if !finite(cx, cy, r) {
		return
	}
	s.canvas.Paint(toDot(cx), toDot(cy), c, alpha)
	x0, x1 := toDot(cx-r), toDot(cx+r)
	y0, y1 := toDot(cy-r), toDot(cy+r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px, py := (float64(x)+0.5)*dotPx, (float64(y)+0.5)*dotPx
			if (px-cx)*(px-cx)+(py-cy)*(py-cy) <= r*r {
				s.canvas.Paint(x, y, c, alpha)
			}
		}
	}
}
