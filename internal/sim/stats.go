package sim

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/meshsim/internal/field"
)

// Summarize reduces one frame's activity to a recorded row.
func Summarize(index int, in field.Input, activity []float64, threshold float64) FrameStats {
	fs := FrameStats{
		Frame:   index,
		Time:    in.Time,
		Present: in.Pointer.Present(),
		Energy:  in.Energy,
	}
	if fs.Present {
		fs.PointerX, fs.PointerY = in.Pointer.X, in.Pointer.Y
	}
	if len(activity) == 0 {
		return fs
	}
	fs.MeanActivity = stat.Mean(activity, nil)
	fs.MaxActivity = floats.Max(activity)
	for _, a := range activity {
		if a > threshold {
			fs.ActiveCount++
		}
	}
	return fs
}
