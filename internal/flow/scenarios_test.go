package flow_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/boundary"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"gonum.org/v1/gonum/spatial/r2"
)

func eachFace(f *grid.Field, fn func(fc grid.Face)) {
	f.EachFace(grid.Horizontal, fn)
	f.EachFace(grid.Vertical, fn)
}

var _ = Describe("Simulation", func() {
	for _, order := range []projection.Order{projection.RowMajor, projection.Checkerboard} {
		Describe(fmt.Sprintf("a 4x4 tunnel driven from the left at speed 2 with %s sweeps", order), func() {
			var sim *flow.Simulation

			BeforeEach(func() {
				var err error
				sim, err = flow.Build(4, 4, 1, boundary.WindTunnel(2), flow.WithOrder(order))
				Expect(err).NotTo(HaveOccurred())
			})

			It("keeps every face finite and bounded over many steps", func() {
				for i := 0; i < 20; i++ {
					_, err := sim.Step(0.1, 50, 1.5, r2.Vec{})
					Expect(err).NotTo(HaveOccurred())
				}
				eachFace(sim.Field(), func(fc grid.Face) {
					v := sim.Field().Value(fc)
					Expect(math.IsNaN(v) || math.IsInf(v, 0)).To(BeFalse())
					Expect(math.Abs(v)).To(BeNumerically("<=", 10))
				})
			})

			It("reports the inflow vector left of the domain regardless of state", func() {
				for i := 0; i < 5; i++ {
					_, err := sim.Step(0.2, 30, 1.7, r2.Vec{Y: 3})
					Expect(err).NotTo(HaveOccurred())
					for _, y := range []float64{-3, 0, 1.7, 4, 9} {
						Expect(sim.SampleVelocity(-0.01, y)).To(Equal(r2.Vec{X: 2}))
					}
				}
			})

			It("projects the at-rest field to near zero divergence", func() {
				stats, err := sim.Step(0, 50, 1.5, r2.Vec{})
				Expect(err).NotTo(HaveOccurred())
				Expect(stats.Projection.Iterations).To(Equal(50))
				Expect(stats.Projection.Skipped).To(BeZero())
				Expect(stats.Projection.Residual).To(BeNumerically("<", 1e-3))
			})
		})
	}

	Describe("a 5x5 tunnel with a single centered obstacle", func() {
		var sim *flow.Simulation

		obstacleFaces := func() [4]float64 {
			p, err := sim.Probe(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Obstacle).To(BeTrue())
			var vals [4]float64
			for n, fc := range p.Faces {
				Expect(fc.Mutable).To(BeFalse())
				vals[n] = fc.Value
			}
			return vals
		}

		BeforeEach(func() {
			var err error
			sim, err = flow.Build(5, 5, 0.2, boundary.WindTunnel(1), flow.WithOrder(projection.Checkerboard))
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.AddObstacle(2, 2, 3, 3)).To(Equal(1))
		})

		DescribeTable("keeps the obstacle faces at exactly zero",
			func(dt float64, iterations int, omega float64, force r2.Vec) {
				for i := 0; i < 40; i++ {
					_, err := sim.Step(dt, iterations, omega, force)
					Expect(err).NotTo(HaveOccurred())
					Expect(obstacleFaces()).To(Equal([4]float64{}))
				}
			},
			Entry("plain flow", 0.05, 20, 1.5, r2.Vec{}),
			Entry("with gravity", 0.05, 20, 1.9, r2.Vec{Y: 9.8}),
			Entry("with a cross wind", 0.1, 5, 1.0, r2.Vec{X: -4, Y: 2}),
			Entry("without projection", 0.1, 0, 1.0, r2.Vec{Y: 1}),
		)

		It("frees the faces again once the obstacle is removed", func() {
			_, err := sim.Step(0.05, 10, 1.5, r2.Vec{})
			Expect(err).NotTo(HaveOccurred())

			Expect(sim.RemoveObstacle(2, 2, 3, 3)).To(Equal(1))
			p, err := sim.Probe(2, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Obstacle).To(BeFalse())
			for _, fc := range p.Faces {
				Expect(fc.Mutable).To(BeTrue())
			}
		})
	})

	Describe("step arguments", func() {
		It("rejects an over-relaxation factor outside (0,2) as a configuration error", func() {
			sim, err := flow.Build(3, 3, 1, boundary.Closed())
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.Step(0.1, 1, 2.5, r2.Vec{})
			Expect(err).To(MatchError(grid.ErrConfiguration))
			Expect(sim.Steps()).To(BeZero())
		})
	})
})
