package metrics

import (
	"math"
	"testing"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
)

func uniformField(t *testing.T, u float64) *grid.Field {
	t.Helper()
	f, err := grid.New(3, 2, 0.5)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	f.EachFace(grid.Horizontal, func(fc grid.Face) { f.Set(fc, u) })
	return f
}

func TestKineticEnergy(t *testing.T) {
	f := uniformField(t, 2)
	m := NewKineticEnergy()

	m.Observe(f, 0)
	expected := 0.5 * float64(f.NumHorizontal()) * 4 * 0.25
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()
	m.Observe(uniformField(t, 1), 0)
	m.Observe(uniformField(t, 2), 1)
	m.Observe(uniformField(t, 1), 2)

	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected drift 3, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(1.5)
	if m.Value() != 1 {
		t.Errorf("expected 1 before any sample, got %f", m.Value())
	}

	m.Observe(uniformField(t, 1), 0)
	m.Observe(uniformField(t, 2), 1)

	nan := uniformField(t, 1)
	nan.Force(nan.HFace(1, 1), math.NaN())
	m.Observe(nan, 2)
	m.Observe(uniformField(t, -1), 3)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestMaxSpeedAndDivergence(t *testing.T) {
	f := uniformField(t, -3)
	ms := NewMaxSpeed()
	ms.Observe(f, 0)
	if ms.Value() != 3 {
		t.Errorf("expected max speed 3, got %f", ms.Value())
	}

	d := NewDivergence()
	d.Observe(f, 0)
	if d.Value() != 0 {
		t.Errorf("uniform field should be divergence free, got %f", d.Value())
	}
	c, _ := f.Cell(0, 0)
	f.Set(c.Right, 1)
	d.Observe(f, 1)
	if math.Abs(d.Value()-4) > 1e-12 {
		t.Errorf("expected mean divergence 4, got %f", d.Value())
	}
}
