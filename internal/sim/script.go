package sim

import (
	"math"

	"github.com/san-kum/meshsim/internal/field"
)

// PointerScript drives a headless run. Event reports where the pointer is at
// time t, or false while it is off the surface.
type PointerScript interface {
	Event(t float64) (field.Pointer, bool)
}

// Idle never touches the surface.
type Idle struct{}

func (Idle) Event(float64) (field.Pointer, bool) { return field.Absent, false }

// Orbit circles the viewport center.
type Orbit struct {
	CX, CY float64
	Radius float64
	Period float64
}

func NewOrbit(w, h float64) *Orbit {
	return &Orbit{CX: w / 2, CY: h / 2, Radius: math.Min(w, h) / 3, Period: 4}
}

func (o *Orbit) Event(t float64) (field.Pointer, bool) {
	a := 2 * math.Pi * t / o.Period
	return field.Pointer{X: o.CX + o.Radius*math.Cos(a), Y: o.CY + o.Radius*math.Sin(a)}, true
}

// Sweep crosses the viewport left to right at mid height, then stays away
// for the same time before the next pass.
type Sweep struct {
	W, H   float64
	Period float64
}

func NewSweep(w, h float64) *Sweep {
	return &Sweep{W: w, H: h, Period: 3}
}

func (s *Sweep) Event(t float64) (field.Pointer, bool) {
	phase := math.Mod(t, 2*s.Period)
	if phase >= s.Period {
		return field.Absent, false
	}
	return field.Pointer{X: s.W * phase / s.Period, Y: s.H / 2}, true
}

// Dwell holds the pointer still over one spot during [Enter, Leave) and is
// away otherwise. It shows how the surface settles after the pointer goes.
type Dwell struct {
	X, Y         float64
	Enter, Leave float64
}

func NewDwell(w, h float64) *Dwell {
	return &Dwell{X: w * 0.4, Y: h * 0.45, Enter: 0.5, Leave: 3}
}

func (d *Dwell) Event(t float64) (field.Pointer, bool) {
	if t < d.Enter || t >= d.Leave {
		return field.Absent, false
	}
	return field.Pointer{X: d.X, Y: d.Y}, true
}
