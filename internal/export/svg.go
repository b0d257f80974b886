// Package export writes effect frames and recorded runs as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/sim"
)

// SVGSurface records draw calls as SVG elements. Each batched call becomes
// a single path so large meshes stay compact.
type SVGSurface struct {
	width, height float64
	background    field.Color
	sb            strings.Builder
}

func NewSVGSurface(width, height float64, background field.Color) *SVGSurface {
	return &SVGSurface{width: width, height: height, background: background}
}

func (s *SVGSurface) Size() (w, h float64) { return s.width, s.height }

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *SVGSurface) StrokeSegments(segs []field.Segment, c field.Color, alpha float64) {
	var d strings.Builder
	for _, sg := range segs {
		if !finite(sg.X0, sg.Y0, sg.X1, sg.Y1) {
			continue
		}
		fmt.Fprintf(&d, "M%.1f %.1fL%.1f %.1f", sg.X0, sg.Y0, sg.X1, sg.Y1)
	}
	if d.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.sb, `<path fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="1" d="%s"/>`+"\n",
		c.Hex(), field.Clamp01(alpha), d.String())
}

func (s *SVGSurface) FillRects(rects []field.Rect, c field.Color, alpha float64) {
	var d strings.Builder
	for _, r := range rects {
		if !finite(r.X, r.Y, r.W, r.H) {
			continue
		}
		fmt.Fprintf(&d, "M%.1f %.1fh%.1fv%.1fh%.1fz", r.X, r.Y, r.W, r.H, -r.W)
	}
	if d.Len() == 0 {
		return
	}
	fmt.Fprintf(&s.sb, `<path fill="%s" fill-opacity="%.3f" d="%s"/>`+"\n", c.Hex(), field.Clamp01(alpha), d.String())
}

func (s *SVGSurface) FillCircle(x, y, r float64, c field.Color, alpha float64) {
	if !finite(x, y, r) {
		return
	}
	fmt.Fprintf(&s.sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x, y, r, c.Hex(), field.Clamp01(alpha))
}

// String returns the complete document.
func (s *SVGSurface) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, s.background.Hex())
	sb.WriteString(s.sb.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// PointerTrailSVG draws the pointer path of a recorded run over a
// width x height viewport. The path breaks wherever the pointer was off
// the surface and its stroke fades with energy.
func PointerTrailSVG(frames []sim.FrameStats, width, height float64, stroke field.Color) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	pen := false
	for i, f := range frames {
		if !f.Present {
			pen = false
			continue
		}
		if !pen {
			pen = true
			continue
		}
		prev := frames[i-1]
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="1.5"/>`+"\n",
			prev.PointerX, prev.PointerY, f.PointerX, f.PointerY, stroke.Hex(), 0.2+0.8*field.Clamp01(f.Energy))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
