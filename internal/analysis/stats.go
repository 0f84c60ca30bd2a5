package analysis

import (
	"fmt"
	"math"
)

type Summary struct {
	N    int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4g std=%.4g min=%.4g max=%.4g", s.N, s.Mean, s.Std, s.Min, s.Max)
}

func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Summarize computes population statistics over data.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{N: len(data), Mean: Mean(data), Min: data[0], Max: data[0]}
	variance := 0.0
	for _, v := range data {
		d := v - s.Mean
		variance += d * d
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Std = math.Sqrt(variance / float64(len(data)))
	return s
}

// Tail returns the last fraction of data, at least one element when data is
// non-empty. It is used to skip the start-up transient of a run.
func Tail(data []float64, fraction float64) []float64 {
	if len(data) == 0 {
		return data
	}
	fraction = math.Max(0, math.Min(1, fraction))
	n := max(1, int(math.Round(float64(len(data))*fraction)))
	return data[len(data)-n:]
}
