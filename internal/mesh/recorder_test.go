package mesh

import "github.com/san-kum/meshsim/internal/field"

type strokeCall struct {
	segs  []field.Segment
	color field.Color
	alpha float64
}

type circleCall struct {
	x, y, r float64
	color   field.Color
	alpha   float64
}

// recorder is a field.Surface that remembers every draw call.
type recorder struct {
	strokes []strokeCall
	fills   [][]field.Rect
	circles []circleCall
}

func (r *recorder) Size() (float64, float64) { return 800, 600 }

func (r *recorder) StrokeSegments(segs []field.Segment, c field.Color, alpha float64) {
	cp := make([]field.Segment, len(segs))
	copy(cp, segs)
	r.strokes = append(r.strokes, strokeCall{segs: cp, color: c, alpha: alpha})
}

func (r *recorder) FillRects(rects []field.Rect, c field.Color, alpha float64) {
	cp := make([]field.Rect, len(rects))
	copy(cp, rects)
	r.fills = append(r.fills, cp)
}

func (r *recorder) FillCircle(x, y, rad float64, c field.Color, alpha float64) {
	r.circles = append(r.circles, circleCall{x: x, y: y, r: rad, color: c, alpha: alpha})
}

func (r *recorder) segmentCount() int {
	n := 0
	for _, s := range r.strokes {
		n += len(s.segs)
	}
	return n
}
