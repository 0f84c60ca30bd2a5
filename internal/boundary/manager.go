package boundary

import (
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Manager applies a Config to a field.
//
// Pin must run before every projection sweep. Extrapolate must run before
// projection and again before advection, otherwise open edges feed stale
// values into nearby interpolation.
type Manager struct {
	cfg Config

	// Obstacle faces of the last field pinned, rebuilt when its mask changes.
	solid    []grid.Face
	solidOf  *grid.Field
	solidRev uint64
}

func New(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg}, nil
}

func (m *Manager) Config() Config { return m.cfg }

// Exterior satisfies the sampler's edge lookup.
func (m *Manager) Exterior(s grid.Side) r2.Vec { return m.cfg.Exterior(s) }

// Apply pins fixed faces and then extrapolates open edges.
func (m *Manager) Apply(f *grid.Field) {
	m.Pin(f)
	m.Extrapolate(f)
}

// Pin writes inflow and free-slip values, releases open-edge faces, and
// finally re-pins every obstacle face at zero so obstacles win over edges.
func (m *Manager) Pin(f *grid.Field) {
	for _, s := range grid.Sides {
		e := m.cfg.Edge(s)
		n := edgeLen(f, s)
		for k := 0; k < n; k++ {
			fc := edgeFace(f, s, k)
			switch e.Kind {
			case Inflow:
				f.Pin(fc, e.Value)
			case FreeSlip:
				f.Pin(fc, 0)
			case Open:
				if !f.BoundsObstacle(fc) {
					f.SetFixed(fc, false)
				}
			}
		}
	}

	for _, fc := range m.obstacleFaces(f) {
		f.Pin(fc, 0)
	}
}

func (m *Manager) obstacleFaces(f *grid.Field) []grid.Face {
	if m.solidOf != f || m.solidRev != f.ObstacleRev() {
		m.solid = f.ObstacleFaces(m.solid[:0])
		m.solidOf, m.solidRev = f, f.ObstacleRev()
	}
	return m.solid
}

// Extrapolate copies the first interior face onto each mutable open-edge
// face.
func (m *Manager) Extrapolate(f *grid.Field) {
	for _, s := range grid.Sides {
		if m.cfg.Edge(s).Kind != Open {
			continue
		}
		n := edgeLen(f, s)
		for k := 0; k < n; k++ {
			fc := edgeFace(f, s, k)
			if f.Fixed(fc) {
				continue
			}
			f.Force(fc, f.Value(interiorFace(f, s, k)))
		}
	}
}

func edgeLen(f *grid.Field, s grid.Side) int {
	if s == grid.Left || s == grid.Right {
		return f.NY()
	}
	return f.NX()
}

// edgeFace is the k-th normal face lying on side s.
func edgeFace(f *grid.Field, s grid.Side, k int) grid.Face {
	switch s {
	case grid.Left:
		return f.HFace(0, k)
	case grid.Right:
		return f.HFace(f.NX(), k)
	case grid.Top:
		return f.VFace(k, 0)
	default:
		return f.VFace(k, f.NY())
	}
}

// interiorFace is the normal face one cell inward from edgeFace.
func interiorFace(f *grid.Field, s grid.Side, k int) grid.Face {
	switch s {
	case grid.Left:
		return f.HFace(1, k)
	case grid.Right:
		return f.HFace(f.NX()-1, k)
	case grid.Top:
		return f.VFace(k, 1)
	default:
		return f.VFace(k, f.NY()-1)
	}
}
