package metrics

import "github.com/san-kum/meshsim/internal/sim"

// MeanEnergy averages the interaction energy over a run.
type MeanEnergy struct {
	name    string
	samples int
	total   float64
}

func NewMeanEnergy() *MeanEnergy {
	return &MeanEnergy{name: "mean_energy"}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(f *sim.Frame) {
	e.total += f.Input.Energy
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// PeakActivity is the largest element activity seen in any frame.
type PeakActivity struct {
	name string
	peak float64
}

func NewPeakActivity() *PeakActivity {
	return &PeakActivity{name: "peak_activity"}
}

func (p *PeakActivity) Name() string { return p.name }

func (p *PeakActivity) Observe(f *sim.Frame) {
	if f.Stats.MaxActivity > p.peak {
		p.peak = f.Stats.MaxActivity
	}
}

func (p *PeakActivity) Value() float64 { return p.peak }
func (p *PeakActivity) Reset()         { p.peak = 0 }
