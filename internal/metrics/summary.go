package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/meshsim/internal/field"
	"github.com/san-kum/meshsim/internal/sim"
)

// Summary describes a recorded run as a whole.
type Summary struct {
	Frames        int
	MeanEnergy    float64
	StdEnergy     float64
	MeanActivity  float64
	PeakActivity  float64
	ActiveFrames  int
	PresentFrames int
}

func Summarize(frames []sim.FrameStats) (Summary, error) {
	if len(frames) == 0 {
		return Summary{}, field.ErrEmptyRun
	}
	energy := make([]float64, len(frames))
	mean := make([]float64, len(frames))
	peak := make([]float64, len(frames))
	s := Summary{Frames: len(frames)}
	for i, f := range frames {
		energy[i] = f.Energy
		mean[i] = f.MeanActivity
		peak[i] = f.MaxActivity
		if f.ActiveCount > 0 {
			s.ActiveFrames++
		}
		if f.Present {
			s.PresentFrames++
		}
	}
	s.MeanEnergy, s.StdEnergy = stat.MeanStdDev(energy, nil)
	if len(frames) == 1 {
		s.StdEnergy = 0
	}
	s.MeanActivity = stat.Mean(mean, nil)
	s.PeakActivity = floats.Max(peak)
	return s, nil
}

// Series extracts one column of a run for plotting or analysis.
func Series(frames []sim.FrameStats, column string) ([]float64, error) {
	var pick func(sim.FrameStats) float64
	switch column {
	case "energy":
		pick = func(f sim.FrameStats) float64 { return f.Energy }
	case "mean_activity":
		pick = func(f sim.FrameStats) float64 { return f.MeanActivity }
	case "max_activity":
		pick = func(f sim.FrameStats) float64 { return f.MaxActivity }
	case "active_count":
		pick = func(f sim.FrameStats) float64 { return float64(f.ActiveCount) }
	default:
		return nil, &field.ParamError{Name: "column", Reason: "unknown column " + column}
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out, nil
}

// Columns lists the names Series accepts.
func Columns() []string {
	return []string{"energy", "mean_activity", "max_activity", "active_count"}
}
