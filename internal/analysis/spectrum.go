package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Hann returns data multiplied by a Hann window.
func Hann(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n == 1 {
		copy(out, data)
		return out
	}
	for i, v := range data {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		out[i] = v * w
	}
	return out
}

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data after removing its mean and applying a Hann window. Bin k sits at
// k/(len(data)·dt).
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := Mean(data)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(Hann(centered))
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the strongest non-constant bin
// for samples spaced dt apart, and its magnitude. A flat or too-short series
// returns zero.
func DominantFrequency(data []float64, dt float64) (float64, float64) {
	if !(dt > 0) {
		return 0, 0
	}
	ps := PowerSpectrum(data)
	best, power := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(best) / (float64(len(data)) * dt), power
}
