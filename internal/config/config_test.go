package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/boundary"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

func TestDefaultScene(t *testing.T) {
	sc := DefaultScene()

	if sc.Name != "channel" {
		t.Errorf("expected scene channel, got %s", sc.Name)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("default scene invalid: %v", err)
	}

	bc, err := sc.BoundaryConfig()
	if err != nil {
		t.Fatal(err)
	}
	if bc != boundary.WindTunnel(DefaultInflow) {
		t.Errorf("expected a wind tunnel, got %+v", bc)
	}
}

func TestGetPreset(t *testing.T) {
	sc := GetPreset("plate")
	if sc == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(sc.Obstacles) != 1 {
		t.Fatalf("expected one obstacle, got %d", len(sc.Obstacles))
	}

	sc.Obstacles[0].X0 = 99
	sc.Probes[0].Name = "changed"
	if Presets["plate"].Obstacles[0].X0 == 99 || Presets["plate"].Probes[0].Name == "changed" {
		t.Error("GetPreset must return an independent copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("presets not sorted: %v", names)
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			sc := GetPreset(name)
			sim, err := sc.Build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			for _, o := range sc.Obstacles {
				if !sim.IsObstacle(o.X0, o.Y0) {
					t.Errorf("obstacle %s missing at (%d,%d)", o.Name, o.X0, o.Y0)
				}
			}
			if _, err := sim.Step(sc.Dt, 2, sc.Omega, sc.RunConfig().Force); err != nil {
				t.Errorf("step: %v", err)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	sc := GetPreset("plate")
	sim, err := sc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Step(sc.Dt, 4, sc.Omega, sc.RunConfig().Force); err != nil {
		t.Fatal(err)
	}

	back, err := sc.Restore(sim.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !reflect.DeepEqual(sim.Snapshot(), back.Snapshot()) {
		t.Error("restored field differs")
	}
	if back.Order().String() != sc.Order || back.Boundary() != sim.Boundary() {
		t.Error("restored solver settings differ")
	}

	sc.Omega = 3
	if _, err := sc.Restore(sim.Snapshot()); !errors.Is(err, grid.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scene)
	}{
		{"zero width", func(s *Scene) { s.Width = 0 }},
		{"negative height", func(s *Scene) { s.Height = -2 }},
		{"zero cell size", func(s *Scene) { s.CellSize = 0 }},
		{"negative dt", func(s *Scene) { s.Dt = -1 }},
		{"negative steps", func(s *Scene) { s.Steps = -1 }},
		{"omega too large", func(s *Scene) { s.Omega = 2 }},
		{"unknown order", func(s *Scene) { s.Order = "spiral" }},
		{"unknown boundary", func(s *Scene) { s.Boundary.Top.Kind = "periodic" }},
		{"empty obstacle", func(s *Scene) { s.Obstacles = []ObstacleConfig{{X0: 3, Y0: 1, X1: 3, Y1: 5}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := DefaultScene()
			tt.modify(sc)
			err := sc.Validate()
			if !errors.Is(err, grid.ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
			if _, err := sc.Build(); err == nil {
				t.Error("Build accepted an invalid scene")
			}
		})
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	sc := GetPreset("cavity")

	if err := Save(path, sc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(sc, got) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", sc, got)
	}
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	data := "name: small\nwidth: 8\nheight: 4\nboundary:\n  right:\n    kind: free-slip\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Width != 8 || sc.Height != 4 || sc.Name != "small" {
		t.Errorf("unexpected scene %+v", sc)
	}
	if sc.CellSize != DefaultCellSize || sc.Omega != DefaultOmega {
		t.Errorf("defaults lost: cell size %f omega %f", sc.CellSize, sc.Omega)
	}
	if sc.Boundary.Right.Kind != "free-slip" || sc.Boundary.Left.Kind != "inflow" {
		t.Errorf("unexpected boundary %+v", sc.Boundary)
	}
}

func TestExampleINIMatchesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.ini")
	if err := Save(path, DefaultScene()); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(DefaultScene(), sc) {
		t.Errorf("example INI differs from default:\n%+v\n%+v", DefaultScene(), sc)
	}
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.ini")
	data := `[Scene]
Name = step
Width = 40
Height = 20
CellSize = 0.1
Order = checkerboard
Workers = 4
ForceY = 9.8

[Boundary "left"]
Kind = inflow
Value = 2.5

[Boundary "bottom"]
Kind = open

[Obstacle "b"]
X0 = 10
Y0 = 10
X1 = 12
Y1 = 20

[Obstacle "a"]
X0 = 0
Y0 = 15
X1 = 5
Y1 = 20

[Probe "wake"]
X = 2.5
Y = 1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "step" || sc.Width != 40 || sc.CellSize != 0.1 || sc.Workers != 4 {
		t.Errorf("unexpected scene %+v", sc)
	}
	if sc.Force.Y != 9.8 {
		t.Errorf("expected force y 9.8, got %f", sc.Force.Y)
	}
	if sc.Boundary.Left.Value != 2.5 || sc.Boundary.Bottom.Kind != "open" || sc.Boundary.Right.Kind != "open" {
		t.Errorf("unexpected boundary %+v", sc.Boundary)
	}
	if len(sc.Obstacles) != 2 || sc.Obstacles[0].Name != "a" || sc.Obstacles[1].X0 != 10 {
		t.Errorf("unexpected obstacles %+v", sc.Obstacles)
	}
	want := []flow.Probe{{Name: "wake", X: 2.5, Y: 1}}
	if !reflect.DeepEqual(sc.Probes, want) {
		t.Errorf("unexpected probes %+v", sc.Probes)
	}
	if err := sc.Validate(); err != nil {
		t.Errorf("loaded scene invalid: %v", err)
	}
}

func TestLoadINIErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, data string
	}{
		{"unknown edge", "[Boundary \"north\"]\nKind = open\n"},
		{"bad number", "[Scene]\nWidth = wide\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".ini")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
