package grid

import "fmt"

// Snapshot is a detached copy of a field, suitable for persisting.
type Snapshot struct {
	NX       int       `json:"nx"`
	NY       int       `json:"ny"`
	H        float64   `json:"h"`
	U        []float64 `json:"u"`
	V        []float64 `json:"v"`
	UFixed   []bool    `json:"u_fixed"`
	VFixed   []bool    `json:"v_fixed"`
	Obstacle []bool    `json:"obstacle"`
	Pressure []float64 `json:"pressure"`
}

func (f *Field) Snapshot() *Snapshot {
	return &Snapshot{
		NX:       f.nx,
		NY:       f.ny,
		H:        f.h,
		U:        append([]float64(nil), f.u...),
		V:        append([]float64(nil), f.v...),
		UFixed:   append([]bool(nil), f.uFixed...),
		VFixed:   append([]bool(nil), f.vFixed...),
		Obstacle: append([]bool(nil), f.obstacle...),
		Pressure: append([]float64(nil), f.pressure...),
	}
}

// FromSnapshot rebuilds a field. Array lengths must match the topology.
func FromSnapshot(s *Snapshot) (*Field, error) {
	f, err := New(s.NX, s.NY, s.H)
	if err != nil {
		return nil, err
	}
	checks := []struct {
		name      string
		got, want int
	}{
		{"u", len(s.U), len(f.u)},
		{"v", len(s.V), len(f.v)},
		{"u_fixed", len(s.UFixed), len(f.uFixed)},
		{"v_fixed", len(s.VFixed), len(f.vFixed)},
		{"obstacle", len(s.Obstacle), len(f.obstacle)},
		{"pressure", len(s.Pressure), len(f.pressure)},
	}
	for _, c := range checks {
		if c.got != c.want {
			return nil, &ConfigurationError{
				Param:  "snapshot " + c.name,
				Value:  c.got,
				Reason: fmt.Sprintf("expected %d entries", c.want),
			}
		}
	}
	copy(f.u, s.U)
	copy(f.v, s.V)
	copy(f.uFixed, s.UFixed)
	copy(f.vFixed, s.VFixed)
	copy(f.obstacle, s.Obstacle)
	copy(f.pressure, s.Pressure)
	f.obstacleRev++
	return f, nil
}
