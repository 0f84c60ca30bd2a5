package config

import (
	"fmt"
	"sort"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"gopkg.in/gcfg.v1"
)

// ExampleINI is a complete INI scene with every variable documented.
const ExampleINI = `[Scene]

#######################
# Required Parameters #
#######################

# Grid size in cells and the physical size of one cell.
Width = 64
Height = 32
CellSize = 0.05

# Time step and number of steps to run.
Dt = 0.02
Steps = 200

#######################
# Optional Parameters #
#######################

Name = channel

# Projection sweeps per step. Setting Viscosity replaces Iterations with
# ceil(Viscosity * Dt / CellSize^2).
Iterations = 40
# Viscosity = 0.01

# Over-relaxation factor, strictly between 0 and 2.
Omega = 1.9

# row-major or checkerboard. Checkerboard sweeps can use several Workers;
# Workers = 0 means one per CPU.
Order = row-major
Workers = 1

PressureScale = 1
SampleEvery = 1

# Uniform acceleration added to every mutable face.
ForceX = 0
ForceY = 0

# Edges are inflow, free-slip or open. Value is the inflow speed along +x
# for left/right and +y (downward) for top/bottom.
[Boundary "left"]
Kind = inflow
Value = 1

[Boundary "right"]
Kind = open

[Boundary "top"]
Kind = free-slip

[Boundary "bottom"]
Kind = free-slip

# Obstacles are half-open cell rectangles [X0,X1) x [Y0,Y1).
# [Obstacle "plate"]
# X0 = 20
# Y0 = 10
# X1 = 22
# Y1 = 22

# Probes record the velocity at a physical point after every sampled step.
# [Probe "wake"]
# X = 1.6
# Y = 0.8
`

type iniScene struct {
	Name          string
	Width         int
	Height        int
	CellSize      float64
	Dt            float64
	Steps         int
	Iterations    int
	Viscosity     float64
	Omega         float64
	Order         string
	PressureScale float64
	Workers       int
	SampleEvery   int
	ForceX        float64
	ForceY        float64
}

type iniEdge struct {
	Kind  string
	Value float64
}

type iniObstacle struct {
	X0, Y0, X1, Y1 int
}

type iniProbe struct {
	X, Y float64
}

type iniFile struct {
	Scene    iniScene
	Boundary map[string]*iniEdge
	Obstacle map[string]*iniObstacle
	Probe    map[string]*iniProbe
}

// LoadINI reads a scene in the gcfg INI dialect. Obstacles and probes are
// ordered by name.
func LoadINI(path string) (*Scene, error) {
	def := DefaultScene()
	f := iniFile{
		Scene: iniScene{
			Name:          def.Name,
			Width:         def.Width,
			Height:        def.Height,
			CellSize:      def.CellSize,
			Dt:            def.Dt,
			Steps:         def.Steps,
			Iterations:    def.Iterations,
			Omega:         def.Omega,
			Order:         def.Order,
			PressureScale: def.PressureScale,
			Workers:       def.Workers,
			SampleEvery:   def.SampleEvery,
		},
	}
	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	sc := def
	sc.Name = f.Scene.Name
	sc.Width, sc.Height, sc.CellSize = f.Scene.Width, f.Scene.Height, f.Scene.CellSize
	sc.Dt, sc.Steps = f.Scene.Dt, f.Scene.Steps
	sc.Iterations, sc.Viscosity, sc.Omega = f.Scene.Iterations, f.Scene.Viscosity, f.Scene.Omega
	sc.Order = f.Scene.Order
	sc.PressureScale = f.Scene.PressureScale
	sc.Workers = f.Scene.Workers
	sc.SampleEvery = f.Scene.SampleEvery
	sc.Force = ForceConfig{X: f.Scene.ForceX, Y: f.Scene.ForceY}

	for name, e := range f.Boundary {
		dst, err := sc.edge(name)
		if err != nil {
			return nil, err
		}
		*dst = EdgeConfig{Kind: e.Kind, Value: e.Value}
	}

	for _, name := range sortedKeys(f.Obstacle) {
		o := f.Obstacle[name]
		sc.Obstacles = append(sc.Obstacles, ObstacleConfig{Name: name, X0: o.X0, Y0: o.Y0, X1: o.X1, Y1: o.Y1})
	}
	for _, name := range sortedKeys(f.Probe) {
		p := f.Probe[name]
		sc.Probes = append(sc.Probes, flow.Probe{Name: name, X: p.X, Y: p.Y})
	}
	return sc, nil
}

func (s *Scene) edge(name string) (*EdgeConfig, error) {
	switch name {
	case "left":
		return &s.Boundary.Left, nil
	case "right":
		return &s.Boundary.Right, nil
	case "top":
		return &s.Boundary.Top, nil
	case "bottom":
		return &s.Boundary.Bottom, nil
	}
	return nil, fmt.Errorf("config: unknown boundary %q", name)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
