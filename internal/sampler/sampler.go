// Package sampler interpolates the staggered face field at arbitrary points.
package sampler

import (
	"math"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Exterior supplies the velocity seen beyond each domain edge.
type Exterior interface {
	Exterior(s grid.Side) r2.Vec
}

// Sampler reads a field; it never writes to it.
type Sampler struct {
	f   *grid.Field
	ext Exterior
}

// New returns a sampler over f. A nil ext reports zero velocity outside the
// domain.
func New(f *grid.Field, ext Exterior) *Sampler {
	return &Sampler{f: f, ext: ext}
}

// neighbor selects the adjacent row or column on the side of the offset:
// index 0 for offsets below the face center, 1 otherwise.
var neighbor = [2]int{-1, 1}

// At samples at a physical position.
func (s *Sampler) At(p r2.Vec) r2.Vec {
	h := s.f.H()
	return s.AtGrid(r2.Vec{X: p.X / h, Y: p.Y / h})
}

// AtGrid samples at a position in cell units, where cell (ix,iy) spans
// [ix,ix+1)×[iy,iy+1). The far edges x == nx and y == ny still read the
// boundary faces lying on them; only points beyond get the exterior vector.
func (s *Sampler) AtGrid(g r2.Vec) r2.Vec {
	nx, ny := s.f.NX(), s.f.NY()

	switch {
	case math.IsNaN(g.X) || math.IsNaN(g.Y):
		return r2.Vec{}
	case g.X < 0:
		return s.exterior(grid.Left)
	case g.X > float64(nx):
		return s.exterior(grid.Right)
	case g.Y < 0:
		return s.exterior(grid.Top)
	case g.Y > float64(ny):
		return s.exterior(grid.Bottom)
	}

	ix := clampInt(int(math.Floor(g.X)), 0, nx-1)
	iy := clampInt(int(math.Floor(g.Y)), 0, ny-1)
	dx := clamp01(g.X - float64(ix))
	dy := clamp01(g.Y - float64(iy))

	return r2.Vec{
		X: s.component(grid.Horizontal, ix, iy, dx, dy),
		Y: s.component(grid.Vertical, ix, iy, dx, dy),
	}
}

// component interpolates one velocity component inside cell (ix,iy).
// along is the offset across the cell's two faces of that orientation and
// across is the offset toward the neighbor row (u) or column (v).
func (s *Sampler) component(o grid.Orientation, ix, iy int, dx, dy float64) float64 {
	along, across := dx, dy
	if o == grid.Vertical {
		along, across = dy, dx
	}

	side := 0
	if across >= 0.5 {
		side = 1
	}
	w := math.Abs(across - 0.5)

	var own, other float64
	if o == grid.Horizontal {
		nr := clampInt(iy+neighbor[side], 0, s.f.NY()-1)
		own = lerp(s.f.U(ix, iy), s.f.U(ix+1, iy), along)
		other = lerp(s.f.U(ix, nr), s.f.U(ix+1, nr), along)
	} else {
		nc := clampInt(ix+neighbor[side], 0, s.f.NX()-1)
		own = lerp(s.f.V(ix, iy), s.f.V(ix, iy+1), along)
		other = lerp(s.f.V(nc, iy), s.f.V(nc, iy+1), along)
	}
	return (1-w)*own + w*other
}

func (s *Sampler) exterior(side grid.Side) r2.Vec {
	if s.ext == nil {
		return r2.Vec{}
	}
	return s.ext.Exterior(side)
}

func lerp(a, b, t float64) float64 { return (1-t)*a + t*b }

func clamp01(x float64) float64 { return math.Max(0, math.Min(1, x)) }

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
