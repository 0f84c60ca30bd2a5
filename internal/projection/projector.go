// Package projection drives per-cell divergence toward zero with successive
// over-relaxation sweeps over the face field.
package projection

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/parallel"
)

// Order is the cell visiting order within one sweep.
type Order uint8

const (
	// RowMajor visits cells row by row.
	RowMajor Order = iota
	// Checkerboard visits color 0 of a red/black pattern, then color 1, so
	// the colors strictly alternate across sweeps.
	Checkerboard
)

func (o Order) String() string {
	if o == Checkerboard {
		return "checkerboard"
	}
	return "row-major"
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row-major", "rowmajor", "row", "":
		return RowMajor, nil
	case "checkerboard", "red-black":
		return Checkerboard, nil
	}
	return 0, &grid.ConfigurationError{Param: "sweep order", Value: s, Reason: "expected row-major or checkerboard"}
}

// DefaultOmega is a common over-relaxation factor for small grids.
const DefaultOmega = 1.9

// Projector holds the relaxation settings. The zero value is not usable;
// call New.
type Projector struct {
	Omega         float64
	Order         Order
	PressureScale float64
	Workers       int
}

// Stats summarizes one Project call.
type Stats struct {
	Iterations int
	Skipped    int
	Residual   float64
}

func (s Stats) String() string {
	return fmt.Sprintf("iterations=%d skipped=%d residual=%.3e", s.Iterations, s.Skipped, s.Residual)
}

func New(omega float64) (*Projector, error) {
	if err := ValidateOmega(omega); err != nil {
		return nil, err
	}
	return &Projector{Omega: omega, PressureScale: 1, Workers: 1}, nil
}

// ValidateOmega rejects factors outside the open interval (0,2).
func ValidateOmega(omega float64) error {
	if !(omega > 0 && omega < 2) {
		return &grid.ConfigurationError{Param: "omega", Value: omega, Reason: "must lie in (0,2)"}
	}
	return nil
}

// IterationsFor converts a viscosity-like constant into an iteration count,
// ⌈mu·dt/h²⌉, never less than one.
func IterationsFor(mu, dt, h float64) int {
	n := math.Ceil(mu * dt / (h * h))
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Project runs iterations sweeps over f. before, when non-nil, runs ahead of
// each sweep; the simulation uses it to re-pin boundary faces.
func (p *Projector) Project(f *grid.Field, iterations int, before func()) Stats {
	var st Stats
	for it := 0; it < iterations; it++ {
		if before != nil {
			before()
		}
		if p.Order == Checkerboard {
			st.Skipped += p.sweepColor(f, 0)
			st.Skipped += p.sweepColor(f, 1)
		} else {
			st.Skipped += p.sweepRows(f)
		}
		st.Iterations++
	}
	st.Residual = f.TotalDivergence()
	return st
}

func (p *Projector) sweepRows(f *grid.Field) int {
	skipped := 0
	for iy := 0; iy < f.NY(); iy++ {
		for ix := 0; ix < f.NX(); ix++ {
			if !p.relax(f, ix, iy) {
				skipped++
			}
		}
	}
	return skipped
}

// sweepColor relaxes every cell with (ix+iy)%2 == color. Same-colored cells
// share no faces, so rows are split across workers.
func (p *Projector) sweepColor(f *grid.Field, color int) int {
	workers := parallel.Workers(p.Workers)
	counts := make([]int, f.NY())
	parallel.For(f.NY(), workers, 8, func(start, end int) {
		for iy := start; iy < end; iy++ {
			n := 0
			for ix := (iy + color) % 2; ix < f.NX(); ix += 2 {
				if !p.relax(f, ix, iy) {
					n++
				}
			}
			counts[iy] = n
		}
	})
	skipped := 0
	for _, n := range counts {
		skipped += n
	}
	return skipped
}

// relax removes ω of the cell's divergence through its mutable faces and
// reports false when the cell had none to use. Obstacle cells are ignored
// and not counted.
func (p *Projector) relax(f *grid.Field, ix, iy int) bool {
	if f.IsObstacle(ix, iy) {
		return true
	}
	c := f.View(ix, iy)
	k := c.MutableFaces()
	if k == 0 {
		return false
	}
	d := c.Divergence()
	corr := p.Omega * d / float64(k)

	f.Add(c.Left, corr)
	f.Add(c.Top, corr)
	f.Add(c.Right, -corr)
	f.Add(c.Bottom, -corr)

	f.AddPressure(ix, iy, p.PressureScale*d)
	return true
}
