package field

import "math"

// Pointer is a position in surface pixels.
type Pointer struct {
	X, Y float64
}

// Absent is the off-screen sentinel used while no pointer is over the surface.
// Its distance to any finite point is +Inf, so no element can ever be "near" it.
var Absent = Pointer{X: math.Inf(-1), Y: math.Inf(-1)}

// Present reports whether p is a real on-surface position.
func (p Pointer) Present() bool {
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// DistSq returns the squared distance from p to (x, y).
func (p Pointer) DistSq(x, y float64) float64 {
	if !p.Present() {
		return math.Inf(1)
	}
	dx, dy := x-p.X, y-p.Y
	return dx*dx + dy*dy
}

// Input is the per-frame snapshot consumed by Step and Draw.
type Input struct {
	Pointer Pointer
	Energy  float64 // always in [0, 1]
	Time    float64 // seconds since start
	Dt      float64 // seconds since previous frame
}

// Segment is a line from (X0, Y0) to (X1, Y1).
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Surface is a 2D drawing target. Each call is one batched draw operation.
type Surface interface {
	Size() (w, h float64)
	StrokeSegments(segs []Segment, c Color, alpha float64)
	FillRects(rects []Rect, c Color, alpha float64)
	FillCircle(x, y, r float64, c Color, alpha float64)
}

// Effect is a pointer-reactive frame simulation.
type Effect interface {
	Name() string
	// Resize rebuilds all state for a new viewport. A zero-sized viewport
	// yields an empty, harmless effect.
	Resize(width, height float64)
	Step(in Input)
	// Draw renders the current state. A nil surface is a no-op.
	Draw(s Surface, in Input)
	// Activity appends one non-negative activity level per element to dst.
	Activity(dst []float64) []float64
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v > 0:
		return v
	default:
		return 0
	}
}

// Tunable exposes an effect's runtime parameters by name.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
