package grid

// Cell is a view over the four faces bounding one grid cell. It holds face
// addresses, never copies of their values.
type Cell struct {
	IX, IY int

	Left, Right Face
	Top, Bottom Face

	field *Field
}

// Faces returns left, right, top, bottom.
func (c Cell) Faces() [4]Face {
	return [4]Face{c.Left, c.Right, c.Top, c.Bottom}
}

// Divergence is the net outflow (right−left)+(bottom−top).
func (c Cell) Divergence() float64 {
	f := c.field
	return (f.u[c.Right.Index] - f.u[c.Left.Index]) + (f.v[c.Bottom.Index] - f.v[c.Top.Index])
}

// MutableFaces counts faces the projector may adjust.
func (c Cell) MutableFaces() int {
	f := c.field
	k := 0
	if !f.uFixed[c.Left.Index] {
		k++
	}
	if !f.uFixed[c.Right.Index] {
		k++
	}
	if !f.vFixed[c.Top.Index] {
		k++
	}
	if !f.vFixed[c.Bottom.Index] {
		k++
	}
	return k
}

func (c Cell) IsObstacle() bool  { return c.field.obstacle[c.IY*c.field.nx+c.IX] }
func (c Cell) Pressure() float64 { return c.field.pressure[c.IY*c.field.nx+c.IX] }

// Center returns the cell midpoint in cell units.
func (c Cell) Center() (gx, gy float64) {
	return float64(c.IX) + 0.5, float64(c.IY) + 0.5
}
