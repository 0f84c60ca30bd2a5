package grid

import (
	"fmt"
	"math"
)

// Orientation tells which velocity component a face carries.
type Orientation uint8

const (
	// Horizontal faces have an x-directed normal and store u.
	Horizontal Orientation = iota
	// Vertical faces have a y-directed normal and store v.
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Face addresses one scalar in the face storage.
type Face struct {
	Orient Orientation
	Index  int
}

// Side names a domain edge.
type Side uint8

const (
	Left Side = iota
	Right
	Top
	Bottom
)

// Sides lists the domain edges in a fixed order.
var Sides = [4]Side{Left, Right, Top, Bottom}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	default:
		return "bottom"
	}
}

// Field owns the face velocities, their fixed flags, the obstacle mask and
// the per-cell pressure accumulator. Topology is immutable after New.
type Field struct {
	nx, ny int
	h      float64

	u, v           []float64
	uFixed, vFixed []bool

	obstacle []bool
	pressure []float64

	// obstacleRev changes whenever the obstacle mask does.
	obstacleRev uint64
}

// New allocates an nx×ny grid with cell size h. All faces start at zero and
// mutable.
func New(nx, ny int, h float64) (*Field, error) {
	if nx <= 0 {
		return nil, &ConfigurationError{Param: "width", Value: nx, Reason: "must be positive"}
	}
	if ny <= 0 {
		return nil, &ConfigurationError{Param: "height", Value: ny, Reason: "must be positive"}
	}
	if !(h > 0) || math.IsInf(h, 0) {
		return nil, &ConfigurationError{Param: "cell size", Value: h, Reason: "must be positive and finite"}
	}

	nu := (nx + 1) * ny
	nv := nx * (ny + 1)
	return &Field{
		nx:       nx,
		ny:       ny,
		h:        h,
		u:        make([]float64, nu),
		v:        make([]float64, nv),
		uFixed:   make([]bool, nu),
		vFixed:   make([]bool, nv),
		obstacle: make([]bool, nx*ny),
		pressure: make([]float64, nx*ny),
	}, nil
}

func (f *Field) NX() int            { return f.nx }
func (f *Field) NY() int            { return f.ny }
func (f *Field) H() float64         { return f.h }
func (f *Field) Width() float64     { return float64(f.nx) * f.h }
func (f *Field) Height() float64    { return float64(f.ny) * f.h }
func (f *Field) NumHorizontal() int { return len(f.u) }
func (f *Field) NumVertical() int   { return len(f.v) }

// InBounds reports whether (ix,iy) addresses a cell.
func (f *Field) InBounds(ix, iy int) bool {
	return ix >= 0 && ix < f.nx && iy >= 0 && iy < f.ny
}

// HFace returns the horizontal face at column i (0..nx), row j (0..ny-1).
func (f *Field) HFace(i, j int) Face { return Face{Horizontal, j*(f.nx+1) + i} }

// VFace returns the vertical face at column i (0..nx-1), row j (0..ny).
func (f *Field) VFace(i, j int) Face { return Face{Vertical, j*f.nx + i} }

// U is the horizontal face value at (i,j).
func (f *Field) U(i, j int) float64 { return f.u[j*(f.nx+1)+i] }

// V is the vertical face value at (i,j).
func (f *Field) V(i, j int) float64 { return f.v[j*f.nx+i] }

func (f *Field) Value(fc Face) float64 {
	if fc.Orient == Horizontal {
		return f.u[fc.Index]
	}
	return f.v[fc.Index]
}

func (f *Field) Fixed(fc Face) bool {
	if fc.Orient == Horizontal {
		return f.uFixed[fc.Index]
	}
	return f.vFixed[fc.Index]
}

// Set writes a mutable face and reports whether the write happened.
func (f *Field) Set(fc Face, val float64) bool {
	if f.Fixed(fc) {
		return false
	}
	f.Force(fc, val)
	return true
}

// Add increments a mutable face.
func (f *Field) Add(fc Face, delta float64) bool {
	if f.Fixed(fc) {
		return false
	}
	if fc.Orient == Horizontal {
		f.u[fc.Index] += delta
	} else {
		f.v[fc.Index] += delta
	}
	return true
}

// Force writes a face regardless of its fixed flag.
func (f *Field) Force(fc Face, val float64) {
	if fc.Orient == Horizontal {
		f.u[fc.Index] = val
	} else {
		f.v[fc.Index] = val
	}
}

func (f *Field) SetFixed(fc Face, fixed bool) {
	if fc.Orient == Horizontal {
		f.uFixed[fc.Index] = fixed
	} else {
		f.vFixed[fc.Index] = fixed
	}
}

// Pin forces a value and marks the face fixed.
func (f *Field) Pin(fc Face, val float64) {
	f.Force(fc, val)
	f.SetFixed(fc, true)
}

// Coords returns the (i,j) position of a face within its array.
func (f *Field) Coords(fc Face) (i, j int) {
	if fc.Orient == Horizontal {
		return fc.Index % (f.nx + 1), fc.Index / (f.nx + 1)
	}
	return fc.Index % f.nx, fc.Index / f.nx
}

// Center returns the face midpoint in cell units.
func (f *Field) Center(fc Face) (gx, gy float64) {
	i, j := f.Coords(fc)
	if fc.Orient == Horizontal {
		return float64(i), float64(j) + 0.5
	}
	return float64(i) + 0.5, float64(j)
}

// Owners returns the two cells sharing a face. A boundary face has one owner
// outside the domain.
func (f *Field) Owners(fc Face) (ax, ay, bx, by int) {
	i, j := f.Coords(fc)
	if fc.Orient == Horizontal {
		return i - 1, j, i, j
	}
	return i, j - 1, i, j
}

// BoundsObstacle reports whether either owner of the face is an obstacle.
func (f *Field) BoundsObstacle(fc Face) bool {
	ax, ay, bx, by := f.Owners(fc)
	return f.IsObstacle(ax, ay) || f.IsObstacle(bx, by)
}

// Cell returns the bounds-checked view of cell (ix,iy).
func (f *Field) Cell(ix, iy int) (Cell, error) {
	if !f.InBounds(ix, iy) {
		return Cell{}, &OutOfRangeError{IX: ix, IY: iy, NX: f.nx, NY: f.ny}
	}
	return f.View(ix, iy), nil
}

// View returns the cell view without a bounds check. Callers iterating over
// the domain use it in hot loops.
func (f *Field) View(ix, iy int) Cell {
	return Cell{
		IX:     ix,
		IY:     iy,
		Left:   f.HFace(ix, iy),
		Right:  f.HFace(ix+1, iy),
		Top:    f.VFace(ix, iy),
		Bottom: f.VFace(ix, iy+1),
		field:  f,
	}
}

// IsObstacle is false for any coordinate outside the domain.
func (f *Field) IsObstacle(ix, iy int) bool {
	if !f.InBounds(ix, iy) {
		return false
	}
	return f.obstacle[iy*f.nx+ix]
}

func (f *Field) Pressure(ix, iy int) float64 { return f.pressure[iy*f.nx+ix] }

func (f *Field) AddPressure(ix, iy int, d float64) { f.pressure[iy*f.nx+ix] += d }

func (f *Field) ResetPressure() {
	for i := range f.pressure {
		f.pressure[i] = 0
	}
}

// clampRect normalizes a half-open rectangle and clips it to the domain.
func (f *Field) clampRect(x0, y0, x1, y1 int) (int, int, int, int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return max(x0, 0), max(y0, 0), min(x1, f.nx), min(y1, f.ny)
}

// SetObstacle marks every cell in [x0,x1)×[y0,y1) as an obstacle and pins
// its four faces at zero. It returns the number of cells inside the clipped
// rectangle.
func (f *Field) SetObstacle(x0, y0, x1, y1 int) int {
	x0, y0, x1, y1 = f.clampRect(x0, y0, x1, y1)
	n := 0
	for iy := y0; iy < y1; iy++ {
		for ix := x0; ix < x1; ix++ {
			f.obstacle[iy*f.nx+ix] = true
			f.obstacleRev++
			for _, fc := range f.View(ix, iy).Faces() {
				f.Pin(fc, 0)
			}
			n++
		}
	}
	return n
}

// ClearObstacle removes obstacles in [x0,x1)×[y0,y1). Faces that no longer
// bound any obstacle become mutable and restart from zero; faces still
// shared with a remaining obstacle stay pinned. Domain-edge faces are left
// for the boundary manager to re-pin.
func (f *Field) ClearObstacle(x0, y0, x1, y1 int) int {
	x0, y0, x1, y1 = f.clampRect(x0, y0, x1, y1)
	n := 0
	for iy := y0; iy < y1; iy++ {
		for ix := x0; ix < x1; ix++ {
			if f.obstacle[iy*f.nx+ix] {
				f.obstacle[iy*f.nx+ix] = false
				f.obstacleRev++
				n++
			}
		}
	}
	for iy := y0; iy < y1; iy++ {
		for ix := x0; ix < x1; ix++ {
			for _, fc := range f.View(ix, iy).Faces() {
				if f.BoundsObstacle(fc) {
					continue
				}
				f.Force(fc, 0)
				f.SetFixed(fc, false)
			}
		}
	}
	return n
}

// ObstacleRev identifies the current obstacle mask. It differs from any
// earlier value once an obstacle cell is set or cleared.
func (f *Field) ObstacleRev() uint64 { return f.obstacleRev }

// ObstacleFaces appends the faces bounding every obstacle cell to dst.
// Faces shared by two obstacle cells appear twice.
func (f *Field) ObstacleFaces(dst []Face) []Face {
	for iy := 0; iy < f.ny; iy++ {
		for ix := 0; ix < f.nx; ix++ {
			if !f.obstacle[iy*f.nx+ix] {
				continue
			}
			fs := f.View(ix, iy).Faces()
			dst = append(dst, fs[:]...)
		}
	}
	return dst
}

// CountObstacles returns the number of obstacle cells.
func (f *Field) CountObstacles() int {
	n := 0
	for _, o := range f.obstacle {
		if o {
			n++
		}
	}
	return n
}

// TotalDivergence is Σ|d| over non-obstacle cells.
func (f *Field) TotalDivergence() float64 {
	sum := 0.0
	for iy := 0; iy < f.ny; iy++ {
		for ix := 0; ix < f.nx; ix++ {
			if f.obstacle[iy*f.nx+ix] {
				continue
			}
			sum += math.Abs(f.View(ix, iy).Divergence())
		}
	}
	return sum
}

// MaxDivergence is max|d| over non-obstacle cells.
func (f *Field) MaxDivergence() float64 {
	m := 0.0
	for iy := 0; iy < f.ny; iy++ {
		for ix := 0; ix < f.nx; ix++ {
			if f.obstacle[iy*f.nx+ix] {
				continue
			}
			m = math.Max(m, math.Abs(f.View(ix, iy).Divergence()))
		}
	}
	return m
}

// Finite reports whether every face value is a finite number.
func (f *Field) Finite() bool {
	for _, arr := range [2][]float64{f.u, f.v} {
		for _, x := range arr {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}

// EachFace calls fn for every face of the given orientation.
func (f *Field) EachFace(o Orientation, fn func(fc Face)) {
	n := len(f.u)
	if o == Vertical {
		n = len(f.v)
	}
	for i := 0; i < n; i++ {
		fn(Face{o, i})
	}
}

func (f *Field) String() string {
	return fmt.Sprintf("grid %dx%d h=%g", f.nx, f.ny, f.h)
}
