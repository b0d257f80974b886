package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/meshsim/internal/field"
)

// Surface draws effects straight onto the raylib framebuffer. raylib
// batches consecutive primitives itself, so each call only loops.
type Surface struct{}

func (Surface) Size() (w, h float64) {
	return float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
}

func toColor(c field.Color, alpha float64) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, uint8(field.Clamp01(alpha)*255))
}

func (Surface) StrokeSegments(segs []field.Segment, c field.Color, alpha float64) {
	col := toColor(c, alpha)
	for _, s := range segs {
		rl.DrawLineV(
			rl.NewVector2(float32(s.X0), float32(s.Y0)),
			rl.NewVector2(float32(s.X1), float32(s.Y1)),
			col,
		)
	}
}

func (Surface) FillRects(rects []field.Rect, c field.Color, alpha float64) {
	col := toColor(c, alpha)
	for _, r := range rects {
		rl.DrawRectangleRec(rl.Rectangle{X: float32(r.X), Y: float32(r.Y), Width: float32(r.W), Height: float32(r.H)}, col)
	}
}

func (Surface) FillCircle(x, y, r float64, c field.Color, alpha float64) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), toColor(c, alpha))
}
