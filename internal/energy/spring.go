package energy

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// settleFactor maps a duration to an angular frequency so a critically
// damped spring covers roughly 90% of the distance within that duration.
const settleFactor = 4.0

const settleEpsilon = 1e-4

// Spring moves a value toward a target with a damped harmonic spring. The
// duration passed to Retarget sets the stiffness.
type Spring struct {
	damping float64
	freq    float64
	dt      float64
	spring  harmonica.Spring

	pos, vel float64
	target   float64
}

func NewSpring(value, damping float64) *Spring {
	return &Spring{damping: damping, pos: value, target: value}
}

func (s *Spring) Retarget(to, duration float64) {
	s.target = to
	if duration <= 0 {
		s.pos, s.vel = to, 0
		return
	}
	freq := settleFactor / duration
	if freq != s.freq {
		s.freq = freq
		s.dt = 0
	}
}

func (s *Spring) Advance(dt float64) float64 {
	if s.Settled() || dt <= 0 || math.IsNaN(dt) {
		return s.pos
	}
	if dt != s.dt {
		s.dt = dt
		s.spring = harmonica.NewSpring(dt, s.freq, s.damping)
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < settleEpsilon && math.Abs(s.vel) < settleEpsilon {
		s.pos, s.vel = s.target, 0
	}
	return s.pos
}

func (s *Spring) Value() float64  { return s.pos }
func (s *Spring) Target() float64 { return s.target }
func (s *Spring) Settled() bool   { return s.pos == s.target && s.vel == 0 }

func (s *Spring) Set(v float64) {
	s.pos, s.vel, s.target = v, 0, v
}
