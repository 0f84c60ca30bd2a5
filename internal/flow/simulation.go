// Package flow composes the field, boundary policy, projector and advector
// into a stepping simulation.
package flow

import (
	"math"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/advection"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/boundary"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/sampler"
	"gonum.org/v1/gonum/spatial/r2"
)

// Simulation owns one field. It has a single writer: callers must not read
// the field while Step runs.
type Simulation struct {
	field   *grid.Field
	bm      *boundary.Manager
	sampler *sampler.Sampler
	proj    *projection.Projector
	adv     *advection.Advector

	metrics   []Metric
	observers []Observer

	steps int
	time  float64
}

type Option func(*Simulation)

// WithWorkers fans checkerboard sweeps and the advection stage out over n
// goroutines; n <= 0 uses one per CPU.
func WithWorkers(n int) Option {
	return func(s *Simulation) {
		s.proj.Workers = n
		s.adv.Workers = n
	}
}

func WithOrder(o projection.Order) Option {
	return func(s *Simulation) { s.proj.Order = o }
}

// WithPressureScale sets the factor applied to divergence when it is
// accumulated into cell pressure.
func WithPressureScale(k float64) Option {
	return func(s *Simulation) { s.proj.PressureScale = k }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.AddObserver(o) }
}

func WithMetric(m Metric) Option {
	return func(s *Simulation) { s.AddMetric(m) }
}

// Build creates a width×height cell simulation at rest with cell size h and
// applies bc once.
func Build(width, height int, h float64, bc boundary.Config, opts ...Option) (*Simulation, error) {
	f, err := grid.New(width, height, h)
	if err != nil {
		return nil, err
	}
	return attach(f, bc, opts)
}

// Restore resumes from a snapshot. Step count and time restart at zero.
func Restore(snap *grid.Snapshot, bc boundary.Config, opts ...Option) (*Simulation, error) {
	f, err := grid.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return attach(f, bc, opts)
}

func attach(f *grid.Field, bc boundary.Config, opts []Option) (*Simulation, error) {
	bm, err := boundary.New(bc)
	if err != nil {
		return nil, err
	}
	proj, err := projection.New(projection.DefaultOmega)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		field:   f,
		bm:      bm,
		sampler: sampler.New(f, bm),
		proj:    proj,
		adv:     advection.New(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	bm.Apply(f)
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances the simulation by dt:
// forces, boundary, projection, boundary, advection, boundary, observers.
// Invalid arguments leave the state untouched.
func (s *Simulation) Step(dt float64, iterations int, omega float64, force r2.Vec) (StepStats, error) {
	if err := validateStep(dt, iterations, omega, force); err != nil {
		return StepStats{}, err
	}
	f := s.field

	f.ResetPressure()
	s.applyForce(force, dt)
	s.bm.Apply(f)

	s.proj.Omega = omega
	ps := s.proj.Project(f, iterations, func() { s.bm.Pin(f) })
	s.bm.Apply(f)

	n := s.adv.Advect(f, s.sampler, dt)
	s.bm.Apply(f)

	s.steps++
	s.time += dt
	st := StepStats{Step: s.steps, Time: s.time, Projection: ps, Advected: n}

	for _, m := range s.metrics {
		m.Observe(f, s.time)
	}
	for _, o := range s.observers {
		o.OnStep(f, st)
	}
	return st, nil
}

func validateStep(dt float64, iterations int, omega float64, force r2.Vec) error {
	if !(dt >= 0) || math.IsInf(dt, 0) {
		return &grid.ConfigurationError{Param: "dt", Value: dt, Reason: "must be finite and non-negative"}
	}
	if iterations < 0 {
		return &grid.ConfigurationError{Param: "iterations", Value: iterations, Reason: "must be non-negative"}
	}
	if err := projection.ValidateOmega(omega); err != nil {
		return err
	}
	if !finite(force.X) || !finite(force.Y) {
		return &grid.ConfigurationError{Param: "force", Value: force, Reason: "must be finite"}
	}
	return nil
}

func (s *Simulation) applyForce(force r2.Vec, dt float64) {
	if dt == 0 {
		return
	}
	f := s.field
	if du := force.X * dt; du != 0 {
		f.EachFace(grid.Horizontal, func(fc grid.Face) { f.Add(fc, du) })
	}
	if dv := force.Y * dt; dv != 0 {
		f.EachFace(grid.Vertical, func(fc grid.Face) { f.Add(fc, dv) })
	}
}

// AddObstacle blocks the half-open cell rectangle [x0,x1)×[y0,y1) and
// returns the number of cells it covers.
func (s *Simulation) AddObstacle(x0, y0, x1, y1 int) int {
	return s.field.SetObstacle(x0, y0, x1, y1)
}

// RemoveObstacle clears the rectangle and re-pins the domain edges, since
// cleared edge faces come back mutable and at zero.
func (s *Simulation) RemoveObstacle(x0, y0, x1, y1 int) int {
	n := s.field.ClearObstacle(x0, y0, x1, y1)
	s.bm.Pin(s.field)
	return n
}

// SampleVelocity interpolates the velocity at physical (x,y).
func (s *Simulation) SampleVelocity(x, y float64) r2.Vec {
	return s.sampler.At(r2.Vec{X: x, Y: y})
}

func (s *Simulation) CellDivergence(ix, iy int) (float64, error) {
	c, err := s.field.Cell(ix, iy)
	if err != nil {
		return 0, err
	}
	return c.Divergence(), nil
}

// CellPressure is the accumulated pressure of the last step.
func (s *Simulation) CellPressure(ix, iy int) (float64, error) {
	c, err := s.field.Cell(ix, iy)
	if err != nil {
		return 0, err
	}
	return c.Pressure(), nil
}

// IsObstacle is false outside the domain.
func (s *Simulation) IsObstacle(ix, iy int) bool { return s.field.IsObstacle(ix, iy) }

// Probe returns everything known about one cell.
func (s *Simulation) Probe(ix, iy int) (CellProbe, error) {
	c, err := s.field.Cell(ix, iy)
	if err != nil {
		return CellProbe{}, err
	}
	return probeCell(s.field, c), nil
}

// ProbeField is Probe over any field, such as one restored for inspection.
func ProbeField(f *grid.Field, ix, iy int) (CellProbe, error) {
	c, err := f.Cell(ix, iy)
	if err != nil {
		return CellProbe{}, err
	}
	return probeCell(f, c), nil
}

func probeCell(f *grid.Field, c grid.Cell) CellProbe {
	p := CellProbe{
		IX:         c.IX,
		IY:         c.IY,
		Obstacle:   c.IsObstacle(),
		Pressure:   c.Pressure(),
		Divergence: c.Divergence(),
	}
	for n, fc := range c.Faces() {
		p.Faces[n] = FaceProbe{Side: grid.Sides[n], Value: f.Value(fc), Mutable: !f.Fixed(fc)}
	}
	return p
}

func (s *Simulation) Field() *grid.Field        { return s.field }
func (s *Simulation) Boundary() boundary.Config { return s.bm.Config() }
func (s *Simulation) Snapshot() *grid.Snapshot  { return s.field.Snapshot() }
func (s *Simulation) Steps() int                { return s.steps }
func (s *Simulation) Time() float64             { return s.time }
func (s *Simulation) Order() projection.Order   { return s.proj.Order }
func (s *Simulation) Workers() int              { return s.proj.Workers }
func (s *Simulation) PressureScale() float64    { return s.proj.PressureScale }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
