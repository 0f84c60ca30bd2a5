package config

import (
	"sort"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
)

func tunnel(speed float64) BoundaryConfig {
	return BoundaryConfig{
		Left:   EdgeConfig{Kind: "inflow", Value: speed},
		Right:  EdgeConfig{Kind: "open"},
		Top:    EdgeConfig{Kind: "free-slip"},
		Bottom: EdgeConfig{Kind: "free-slip"},
	}
}

var Presets = map[string]*Scene{
	"channel": {
		Name: "channel", Width: 64, Height: 32, CellSize: 0.05,
		Dt: 0.02, Steps: 200, Iterations: 40, Omega: 1.9, Order: "row-major", PressureScale: 1, Workers: 1,
		Boundary: tunnel(1),
		Probes:   []flow.Probe{{Name: "center", X: 1.6, Y: 0.8}},
	},
	"plate": {
		Name: "plate", Width: 128, Height: 64, CellSize: 0.025,
		Dt: 0.01, Steps: 600, Iterations: 60, Omega: 1.9, Order: "checkerboard", PressureScale: 1, Workers: 0,
		Boundary:  tunnel(1.5),
		Obstacles: []ObstacleConfig{{Name: "plate", X0: 30, Y0: 22, X1: 32, Y1: 42}},
		Probes: []flow.Probe{
			{Name: "wake", X: 1.4, Y: 0.8},
			{Name: "far", X: 2.6, Y: 0.8},
		},
	},
	"cavity": {
		Name: "cavity", Width: 96, Height: 48, CellSize: 0.05,
		Dt: 0.02, Steps: 400, Iterations: 50, Omega: 1.9, Order: "checkerboard", PressureScale: 1, Workers: 0,
		Boundary: tunnel(1),
		Obstacles: []ObstacleConfig{
			{Name: "upstream floor", X0: 0, Y0: 32, X1: 36, Y1: 48},
			{Name: "downstream floor", X0: 60, Y0: 32, X1: 96, Y1: 48},
		},
		Probes: []flow.Probe{{Name: "cavity", X: 2.4, Y: 2.0}},
	},
	"jet": {
		Name: "jet", Width: 64, Height: 64, CellSize: 0.05,
		Dt: 0.02, Steps: 300, Iterations: 50, Omega: 1.8, Order: "checkerboard", PressureScale: 1, Workers: 0,
		Boundary: BoundaryConfig{
			Left:   EdgeConfig{Kind: "free-slip"},
			Right:  EdgeConfig{Kind: "free-slip"},
			Top:    EdgeConfig{Kind: "inflow", Value: 2},
			Bottom: EdgeConfig{Kind: "open"},
		},
		Obstacles: []ObstacleConfig{
			{Name: "nozzle left", X0: 0, Y0: 0, X1: 28, Y1: 1},
			{Name: "nozzle right", X0: 36, Y0: 0, X1: 64, Y1: 1},
		},
		Probes: []flow.Probe{{Name: "core", X: 1.6, Y: 1.6}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Scene {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	sc := *p
	sc.Obstacles = append([]ObstacleConfig(nil), p.Obstacles...)
	sc.Probes = append([]flow.Probe(nil), p.Probes...)
	return &sc
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
