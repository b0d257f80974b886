package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/meshsim/internal/field"
)

// Spectrum returns the magnitude of each non-negative frequency bin of the
// mean-removed series.
func Spectrum(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	mean := stat.Mean(series, nil)
	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeff := fft.Coefficients(nil, centered)
	mag := make([]float64, len(coeff))
	for i, c := range coeff {
		mag[i] = cmplx.Abs(c)
	}
	return mag
}

// DominantFrequency returns the strongest non-zero frequency in Hz for a
// series sampled at fps.
func DominantFrequency(series []float64, fps float64) (float64, error) {
	if len(series) < 4 {
		return 0, field.ErrEmptyRun
	}
	mag := Spectrum(series)
	best := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	fft := fourier.NewFFT(len(series))
	return fft.Freq(best) * fps, nil
}
