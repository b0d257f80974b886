// Package energy turns pointer events into the energy scalar and pointer
// position read by effects each frame.
//
// Events may arrive from any goroutine at any rate. Only the most recent
// pointer position is kept; the frame loop reads a consistent snapshot
// through Input.
package energy

import (
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/meshsim/internal/field"
)

type easer interface {
	Retarget(to, duration float64)
	Advance(dt float64) float64
	Value() float64
	Target() float64
	Settled() bool
	Set(v float64)
}

type Listener struct {
	mu      sync.Mutex
	cfg     Config
	ease    easer
	energy  float64
	pointer field.Pointer
	idle    float64
	events  int
}

func NewListener(cfg Config) (*Listener, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("energy config: %w", err)
	}
	l := &Listener{cfg: cfg, pointer: field.Absent}
	if cfg.Mode == ModeSpring {
		l.ease = NewSpring(0, cfg.Damping)
	} else {
		l.ease = NewTween(0)
	}
	return l, nil
}

// Move records the latest pointer position and starts a rise toward 1.
func (l *Listener) Move(x, y float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pointer = field.Pointer{X: x, Y: y}
	l.rise()
}

// Enter starts a rise without knowing the pointer position yet.
func (l *Listener) Enter() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rise()
}

// Leave starts a fall toward 0 and parks the pointer at field.Absent.
func (l *Listener) Leave() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pointer = field.Absent
	l.idle = 0
	l.fall()
}

// Advance moves the easing forward by dt seconds.
func (l *Listener) Advance(dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.IdleTimeout > 0 && l.pointer.Present() && l.ease.Target() > 0 {
		l.idle += dt
		if l.idle >= l.cfg.IdleTimeout {
			l.fall()
		}
	}
	l.energy = field.Clamp01(l.ease.Advance(dt))
}

func (l *Listener) rise() {
	l.idle = 0
	l.events++
	l.ease.Retarget(1, l.cfg.RiseDuration)
	l.energy = field.Clamp01(l.ease.Value())
}

func (l *Listener) fall() {
	l.events++
	l.ease.Retarget(0, l.cfg.FallDuration)
	l.energy = field.Clamp01(l.ease.Value())
}

func (l *Listener) Energy() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.energy
}

func (l *Listener) Pointer() field.Pointer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pointer
}

// Events is the number of rise and fall transitions started so far.
func (l *Listener) Events() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events
}

// Input snapshots pointer and energy for one frame.
func (l *Listener) Input(t, dt float64) field.Input {
	l.mu.Lock()
	defer l.mu.Unlock()
	return field.Input{Pointer: l.pointer, Energy: l.energy, Time: t, Dt: dt}
}

// Reset returns to zero energy with the pointer absent.
func (l *Listener) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ease.Set(0)
	l.energy = 0
	l.idle = 0
	l.pointer = field.Absent
}

func (l *Listener) Config() Config { return l.cfg }
