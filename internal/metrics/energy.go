package metrics

import (
	"math"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

// KineticEnergyOf is ½ Σ value²·h² over every face, per unit density.
func KineticEnergyOf(f *grid.Field) float64 {
	sum := 0.0
	for _, o := range []grid.Orientation{grid.Horizontal, grid.Vertical} {
		f.EachFace(o, func(fc grid.Face) {
			v := f.Value(fc)
			sum += v * v
		})
	}
	return 0.5 * sum * f.H() * f.H()
}

type KineticEnergy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *grid.Field, t float64) {
	e.totalEnergy += KineticEnergyOf(f)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of kinetic energy from the
// first observation.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f *grid.Field, t float64) {
	energy := KineticEnergyOf(f)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
