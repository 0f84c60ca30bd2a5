package flow

import (
	"testing"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/boundary"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"gonum.org/v1/gonum/spatial/r2"
)

func newBenchSimulation(b *testing.B, opts ...Option) *Simulation {
	b.Helper()
	sim, err := Build(128, 64, 0.025, boundary.WindTunnel(1.5), opts...)
	if err != nil {
		b.Fatal(err)
	}
	sim.AddObstacle(30, 22, 32, 42)
	return sim
}

func BenchmarkStep(b *testing.B) {
	sim := newBenchSimulation(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sim.Step(0.01, 40, 1.9, r2.Vec{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStepCheckerboardParallel(b *testing.B) {
	sim := newBenchSimulation(b, WithOrder(projection.Checkerboard), WithWorkers(0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sim.Step(0.01, 40, 1.9, r2.Vec{}); err != nil {
			b.Fatal(err)
		}
	}
}
