package metrics

import "github.com/san-kum/meshsim/internal/sim"

// Stability is the fraction of frames in which no element's activity
// exceeded the threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *sim.Frame) {
	s.samples++
	if f.Stats.MaxActivity > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// SettleFrames counts the frames until activity drops below the threshold
// for good. A run that never settles reports its full length.
type SettleFrames struct {
	name      string
	threshold float64
	samples   int
	lastBusy  int
}

func NewSettleFrames(threshold float64) *SettleFrames {
	return &SettleFrames{name: "settle_frames", threshold: threshold, lastBusy: -1}
}

func (s *SettleFrames) Name() string { return s.name }

func (s *SettleFrames) Observe(f *sim.Frame) {
	s.samples++
	if f.Stats.MaxActivity > s.threshold || f.Input.Pointer.Present() {
		s.lastBusy = f.Index
	}
}

func (s *SettleFrames) Value() float64 {
	if s.lastBusy == s.samples-1 {
		return float64(s.samples)
	}
	return float64(s.lastBusy + 1)
}

func (s *SettleFrames) Reset() {
	s.samples = 0
	s.lastBusy = -1
}
