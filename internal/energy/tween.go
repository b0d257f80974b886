package energy

import "math"

// PowerTwoOut is the quadratic ease-out curve 1-(1-p)².
func PowerTwoOut(p float64) float64 {
	q := 1 - p
	return 1 - q*q
}

// Tween interpolates a value toward a target over a fixed duration.
// Retargeting restarts from the current value, discarding the old tween.
type Tween struct {
	from, to float64
	duration float64
	elapsed  float64
	value    float64
}

func NewTween(value float64) *Tween {
	return &Tween{from: value, to: value, value: value}
}

func (t *Tween) Retarget(to, duration float64) {
	t.from = t.value
	t.to = to
	t.duration = duration
	t.elapsed = 0
	if duration <= 0 {
		t.value = to
	}
}

func (t *Tween) Advance(dt float64) float64 {
	if t.Settled() || dt <= 0 || math.IsNaN(dt) {
		return t.value
	}
	t.elapsed += dt
	p := t.elapsed / t.duration
	if p >= 1 {
		t.value = t.to
		return t.value
	}
	t.value = t.from + (t.to-t.from)*PowerTwoOut(p)
	return t.value
}

func (t *Tween) Value() float64  { return t.value }
func (t *Tween) Target() float64 { return t.to }
func (t *Tween) Settled() bool   { return t.value == t.to }

// Set jumps to v with no animation.
func (t *Tween) Set(v float64) {
	t.from, t.to, t.value = v, v, v
	t.elapsed, t.duration = 0, 0
}
