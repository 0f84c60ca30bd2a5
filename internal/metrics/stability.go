package metrics

import (
	"math"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

// Stability is the fraction of observed steps whose face speeds all stayed
// within threshold.
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

func (s *Stability) Observe(f *grid.Field, t float64) {
	s.samples++
	if !(MaxSpeedOf(f) <= s.threshold) {
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

// MaxSpeedOf is the largest |value| over all faces, NaN if any face is NaN.
func MaxSpeedOf(f *grid.Field) float64 {
	m := 0.0
	for _, o := range []grid.Orientation{grid.Horizontal, grid.Vertical} {
		f.EachFace(o, func(fc grid.Face) {
			v := math.Abs(f.Value(fc))
			if math.IsNaN(v) || v > m {
				m = v
			}
		})
	}
	return m
}

// MaxSpeed tracks the largest face speed seen during a run.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f *grid.Field, t float64) {
	m.max = math.Max(m.max, MaxSpeedOf(f))
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }
