// Package boundary enforces domain-edge policies and obstacle walls on a
// staggered field.
package boundary

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind is the policy applied to the normal faces of one domain edge.
type Kind uint8

const (
	// FreeSlip pins the normal component at zero and leaves tangential
	// flow alone.
	FreeSlip Kind = iota
	// Inflow pins the normal component at a constant value.
	Inflow
	// Open copies the adjacent interior face outward (zero gradient).
	Open
)

func (k Kind) String() string {
	switch k {
	case FreeSlip:
		return "free-slip"
	case Inflow:
		return "inflow"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts the names produced by String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free-slip", "freeslip", "wall", "":
		return FreeSlip, nil
	case "inflow":
		return Inflow, nil
	case "open", "outflow":
		return Open, nil
	}
	return 0, &grid.ConfigurationError{Param: "boundary kind", Value: s, Reason: "expected inflow, free-slip or open"}
}

// Edge is the policy for one side. Value is the signed normal velocity
// along +x (left/right) or +y (top/bottom) and only matters for Inflow.
type Edge struct {
	Kind  Kind
	Value float64
}

func InflowEdge(v float64) Edge { return Edge{Kind: Inflow, Value: v} }
func FreeSlipEdge() Edge        { return Edge{Kind: FreeSlip} }
func OpenEdge() Edge            { return Edge{Kind: Open} }

// Config holds one policy per domain edge.
type Config struct {
	Left, Right, Top, Bottom Edge
}

// WindTunnel drives flow in from the left at speed, lets it leave on the
// right, and walls the top and bottom.
func WindTunnel(speed float64) Config {
	return Config{
		Left:   InflowEdge(speed),
		Right:  OpenEdge(),
		Top:    FreeSlipEdge(),
		Bottom: FreeSlipEdge(),
	}
}

// Closed walls every edge.
func Closed() Config {
	return Config{}
}

func (c Config) Edge(s grid.Side) Edge {
	switch s {
	case grid.Left:
		return c.Left
	case grid.Right:
		return c.Right
	case grid.Top:
		return c.Top
	default:
		return c.Bottom
	}
}

func (c Config) Validate() error {
	for _, s := range grid.Sides {
		e := c.Edge(s)
		if e.Kind > Open {
			return &grid.ConfigurationError{Param: s.String() + " boundary kind", Value: e.Kind, Reason: "unknown policy"}
		}
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return &grid.ConfigurationError{Param: s.String() + " boundary value", Value: e.Value, Reason: "must be finite"}
		}
	}
	return nil
}

// Exterior is the velocity reported for points beyond side s: the inflow
// vector for inflow edges, zero otherwise.
func (c Config) Exterior(s grid.Side) r2.Vec {
	e := c.Edge(s)
	if e.Kind != Inflow {
		return r2.Vec{}
	}
	if s == grid.Left || s == grid.Right {
		return r2.Vec{X: e.Value}
	}
	return r2.Vec{Y: e.Value}
}
