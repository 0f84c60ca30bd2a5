package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/boundary"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 64
	DefaultHeight     = 32
	DefaultCellSize   = 0.05
	DefaultDt         = 0.02
	DefaultSteps      = 200
	DefaultIterations = 40
	DefaultOmega      = projection.DefaultOmega
	DefaultInflow     = 1.0
)

// Scene describes a simulation setup and how long to run it.
type Scene struct {
	Name          string           `yaml:"name"`
	Width         int              `yaml:"width"`
	Height        int              `yaml:"height"`
	CellSize      float64          `yaml:"cell_size"`
	Dt            float64          `yaml:"dt"`
	Steps         int              `yaml:"steps"`
	Iterations    int              `yaml:"iterations"`
	Viscosity     float64          `yaml:"viscosity"`
	Omega         float64          `yaml:"omega"`
	Order         string           `yaml:"order"`
	PressureScale float64          `yaml:"pressure_scale"`
	Workers       int              `yaml:"workers"`
	SampleEvery   int              `yaml:"sample_every"`
	Force         ForceConfig      `yaml:"force"`
	Boundary      BoundaryConfig   `yaml:"boundary"`
	Obstacles     []ObstacleConfig `yaml:"obstacles"`
	Probes        []flow.Probe     `yaml:"probes"`
}

type ForceConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type EdgeConfig struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

type BoundaryConfig struct {
	Left   EdgeConfig `yaml:"left"`
	Right  EdgeConfig `yaml:"right"`
	Top    EdgeConfig `yaml:"top"`
	Bottom EdgeConfig `yaml:"bottom"`
}

// ObstacleConfig is a half-open cell rectangle [X0,X1)×[Y0,Y1).
type ObstacleConfig struct {
	Name string `yaml:"name,omitempty"`
	X0   int    `yaml:"x0"`
	Y0   int    `yaml:"y0"`
	X1   int    `yaml:"x1"`
	Y1   int    `yaml:"y1"`
}

func DefaultScene() *Scene {
	return &Scene{
		Name:          "channel",
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		CellSize:      DefaultCellSize,
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		Iterations:    DefaultIterations,
		Omega:         DefaultOmega,
		Order:         projection.RowMajor.String(),
		PressureScale: 1,
		Workers:       1,
		SampleEvery:   1,
		Boundary: BoundaryConfig{
			Left:   EdgeConfig{Kind: "inflow", Value: DefaultInflow},
			Right:  EdgeConfig{Kind: "open"},
			Top:    EdgeConfig{Kind: "free-slip"},
			Bottom: EdgeConfig{Kind: "free-slip"},
		},
	}
}

// Load reads a scene from YAML, or from INI when the file ends in .ini or
// .gcfg. Unset values keep their defaults.
func Load(path string) (*Scene, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return LoadINI(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScene()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return sc, nil
}

// Save writes sc as YAML. INI paths get the annotated example instead,
// since INI is an input-only format here.
func Save(path string, sc *Scene) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return os.WriteFile(path, []byte(ExampleINI), 0644)
	}
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scene) Validate() error {
	if s.Width <= 0 {
		return &grid.ConfigurationError{Param: "width", Value: s.Width, Reason: "must be positive"}
	}
	if s.Height <= 0 {
		return &grid.ConfigurationError{Param: "height", Value: s.Height, Reason: "must be positive"}
	}
	if !(s.CellSize > 0) {
		return &grid.ConfigurationError{Param: "cell size", Value: s.CellSize, Reason: "must be positive"}
	}
	if _, err := projection.ParseOrder(s.Order); err != nil {
		return err
	}
	if _, err := s.BoundaryConfig(); err != nil {
		return err
	}
	for _, o := range s.Obstacles {
		if o.X0 == o.X1 || o.Y0 == o.Y1 {
			return &grid.ConfigurationError{Param: "obstacle " + o.Name, Value: o, Reason: "rectangle is empty"}
		}
	}
	return s.RunConfig().Validate()
}

// BoundaryConfig converts the edge names into boundary policies.
func (s *Scene) BoundaryConfig() (boundary.Config, error) {
	var cfg boundary.Config
	edges := []struct {
		dst *boundary.Edge
		src EdgeConfig
	}{
		{&cfg.Left, s.Boundary.Left},
		{&cfg.Right, s.Boundary.Right},
		{&cfg.Top, s.Boundary.Top},
		{&cfg.Bottom, s.Boundary.Bottom},
	}
	for _, e := range edges {
		k, err := boundary.ParseKind(e.src.Kind)
		if err != nil {
			return boundary.Config{}, err
		}
		*e.dst = boundary.Edge{Kind: k, Value: e.src.Value}
	}
	return cfg, cfg.Validate()
}

func (s *Scene) RunConfig() flow.RunConfig {
	return flow.RunConfig{
		Dt:          s.Dt,
		Steps:       s.Steps,
		Iterations:  s.Iterations,
		Viscosity:   s.Viscosity,
		Omega:       s.Omega,
		Force:       r2.Vec{X: s.Force.X, Y: s.Force.Y},
		Probes:      s.Probes,
		SampleEvery: s.SampleEvery,
	}
}

// Build validates the scene and returns a simulation with its obstacles in
// place. extra options are applied after the scene's own.
func (s *Scene) Build(extra ...flow.Option) (*flow.Simulation, error) {
	bc, opts, err := s.prepare()
	if err != nil {
		return nil, err
	}
	sim, err := flow.Build(s.Width, s.Height, s.CellSize, bc, append(opts, extra...)...)
	if err != nil {
		return nil, err
	}
	for _, o := range s.Obstacles {
		sim.AddObstacle(o.X0, o.Y0, o.X1, o.Y1)
	}
	return sim, nil
}

// Restore resumes a stored field under the scene's boundary and solver
// settings. Obstacles come from the snapshot, not the scene.
func (s *Scene) Restore(snap *grid.Snapshot, extra ...flow.Option) (*flow.Simulation, error) {
	bc, opts, err := s.prepare()
	if err != nil {
		return nil, err
	}
	return flow.Restore(snap, bc, append(opts, extra...)...)
}

func (s *Scene) prepare() (boundary.Config, []flow.Option, error) {
	if err := s.Validate(); err != nil {
		return boundary.Config{}, nil, err
	}
	bc, err := s.BoundaryConfig()
	if err != nil {
		return boundary.Config{}, nil, err
	}
	order, err := projection.ParseOrder(s.Order)
	if err != nil {
		return boundary.Config{}, nil, err
	}

	opts := []flow.Option{
		flow.WithOrder(order),
		flow.WithPressureScale(s.PressureScale),
		flow.WithWorkers(s.Workers),
	}
	return bc, opts, nil
}
