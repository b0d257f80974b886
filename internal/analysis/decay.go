package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/meshsim/internal/field"
)

// DecayRate fits ln(series) against time with least squares and returns
// the slope in 1/s. Samples at or below floor are ignored since they carry
// no decay information. A settling series has a negative rate.
func DecayRate(series []float64, fps, floor float64) (float64, error) {
	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	for i, v := range series {
		if v <= floor {
			continue
		}
		xs = append(xs, float64(i)/fps)
		ys = append(ys, math.Log(v))
	}
	if len(xs) < 2 {
		return 0, field.ErrEmptyRun
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, nil
}

// Envelope keeps the running maximum over each window of n samples, which
// turns an oscillating decay into a monotone one suitable for DecayRate.
func Envelope(series []float64, n int) []float64 {
	if n < 1 {
		n = 1
	}
	out := make([]float64, 0, len(series)/n+1)
	for i := 0; i < len(series); i += n {
		end := min(i+n, len(series))
		peak := series[i]
		for _, v := range series[i:end] {
			peak = math.Max(peak, v)
		}
		out = append(out, peak)
	}
	return out
}
