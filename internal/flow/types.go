package flow

import (
	"fmt"
	"strings"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"gonum.org/v1/gonum/spatial/r2"
)

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(f *grid.Field, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step. It must not mutate the
// field.
type Observer interface {
	OnStep(f *grid.Field, st StepStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *grid.Field, st StepStats)

func (fn ObserverFunc) OnStep(f *grid.Field, st StepStats) { fn(f, st) }

// StepStats describes one completed step.
type StepStats struct {
	Step       int
	Time       float64
	Projection projection.Stats
	Advected   int
}

// Probe is a named sampling point in physical coordinates.
type Probe struct {
	Name string  `yaml:"name" json:"name"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

// Sample is one row of run history.
type Sample struct {
	Step          int
	Time          float64
	Residual      float64
	MaxDivergence float64
	Skipped       int
	Probes        []r2.Vec
}

// Result collects what a run produced.
type Result struct {
	Samples    []Sample
	Probes     []Probe
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
	Final      *grid.Snapshot
}

// ProbeSeries returns the velocity history of probe n.
func (r *Result) ProbeSeries(n int) (times []float64, vel []r2.Vec) {
	times = make([]float64, 0, len(r.Samples))
	vel = make([]r2.Vec, 0, len(r.Samples))
	for _, s := range r.Samples {
		if n >= len(s.Probes) {
			continue
		}
		times = append(times, s.Time)
		vel = append(vel, s.Probes[n])
	}
	return times, vel
}

// FaceProbe is one face of a CellProbe.
type FaceProbe struct {
	Side    grid.Side
	Value   float64
	Mutable bool
}

// CellProbe is the debug view of one cell.
type CellProbe struct {
	IX, IY     int
	Obstacle   bool
	Pressure   float64
	Divergence float64
	Faces      [4]FaceProbe
}

func (p CellProbe) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cell (%d,%d)", p.IX, p.IY)
	if p.Obstacle {
		b.WriteString(" obstacle")
	}
	fmt.Fprintf(&b, "\npressure   %.6g\ndivergence %.6g\n", p.Pressure, p.Divergence)
	for _, fc := range p.Faces {
		state := "fixed"
		if fc.Mutable {
			state = "mutable"
		}
		fmt.Fprintf(&b, "%-6s %12.6g  %s\n", fc.Side, fc.Value, state)
	}
	return b.String()
}
