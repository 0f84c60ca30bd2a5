// Package advection moves the face field along itself with a two-stage
// semi-Lagrangian backtrace.
package advection

import (
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/parallel"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/sampler"
	"gonum.org/v1/gonum/spatial/r2"
)

const minChunk = 256

// Advector keeps its staging buffers between calls. It is not safe for
// concurrent use.
type Advector struct {
	Workers int

	faces []grid.Face
	stage []float64
}

func New(workers int) *Advector {
	return &Advector{Workers: workers}
}

// Advect traces every mutable interior face back through the field read by
// s and replaces it with the sampled component. All faces are staged before
// any is written. It returns the number of faces updated.
func (a *Advector) Advect(f *grid.Field, s *sampler.Sampler, dt float64) int {
	if dt == 0 {
		return 0
	}

	a.collect(f)
	if cap(a.stage) < len(a.faces) {
		a.stage = make([]float64, len(a.faces))
	}
	a.stage = a.stage[:len(a.faces)]

	step := dt / f.H()
	parallel.For(len(a.faces), parallel.Workers(a.Workers), minChunk, func(start, end int) {
		for n := start; n < end; n++ {
			a.stage[n] = trace(f, s, a.faces[n], step)
		}
	})

	for n, fc := range a.faces {
		f.Set(fc, a.stage[n])
	}
	return len(a.faces)
}

// trace runs the midpoint backtrace from the face center. step is dt/h, so
// positions stay in cell units.
func trace(f *grid.Field, s *sampler.Sampler, fc grid.Face, step float64) float64 {
	gx, gy := f.Center(fc)
	p0 := r2.Vec{X: gx, Y: gy}

	v0 := s.AtGrid(p0)
	mid := r2.Sub(p0, r2.Scale(step/2, v0))
	vMid := s.AtGrid(mid)
	back := r2.Sub(p0, r2.Scale(step, vMid))

	v := s.AtGrid(back)
	if fc.Orient == grid.Horizontal {
		return v.X
	}
	return v.Y
}

// collect lists the interior faces that are currently mutable. Faces on the
// domain edge belong to the boundary manager.
func (a *Advector) collect(f *grid.Field) {
	a.faces = a.faces[:0]
	nx, ny := f.NX(), f.NY()
	for j := 0; j < ny; j++ {
		for i := 1; i < nx; i++ {
			if fc := f.HFace(i, j); !f.Fixed(fc) {
				a.faces = append(a.faces, fc)
			}
		}
	}
	for j := 1; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if fc := f.VFace(i, j); !f.Fixed(fc) {
				a.faces = append(a.faces, fc)
			}
		}
	}
}
