package flow

import (
	"context"
	"fmt"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/grid"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/projection"
	"gonum.org/v1/gonum/spatial/r2"
)

// RunConfig drives a fixed number of steps.
type RunConfig struct {
	Dt    float64
	Steps int

	// Iterations is the projection budget per step. A positive Viscosity
	// replaces it with ⌈Viscosity·Dt/h²⌉.
	Iterations int
	Viscosity  float64
	Omega      float64

	Force  r2.Vec
	Probes []Probe

	// SampleEvery records one history row every n steps; 0 means every step.
	SampleEvery int
}

func (c RunConfig) Validate() error {
	if err := validateStep(c.Dt, c.Iterations, c.Omega, c.Force); err != nil {
		return err
	}
	if c.Steps < 0 {
		return &grid.ConfigurationError{Param: "steps", Value: c.Steps, Reason: "must be non-negative"}
	}
	if c.Viscosity < 0 || !finite(c.Viscosity) {
		return &grid.ConfigurationError{Param: "viscosity", Value: c.Viscosity, Reason: "must be finite and non-negative"}
	}
	if c.SampleEvery < 0 {
		return &grid.ConfigurationError{Param: "sample interval", Value: c.SampleEvery, Reason: "must be non-negative"}
	}
	return nil
}

// IterationsFor resolves the per-step projection budget for a field of cell
// size h.
func (c RunConfig) IterationsFor(h float64) int {
	if c.Viscosity > 0 {
		return projection.IterationsFor(c.Viscosity, c.Dt, h)
	}
	return c.Iterations
}

// Run steps the simulation cfg.Steps times, recording probe history and
// metric values. A non-finite field stops the run and is reported in
// Result.Errors; cancellation returns the partial result with the context
// error.
func (s *Simulation) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}
	iterations := cfg.IterationsFor(s.field.H())

	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/every+1),
		Probes:  cfg.Probes,
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Samples = append(result.Samples, s.sample(cfg.Probes, projection.Stats{Residual: s.field.TotalDivergence()}))

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		st, err := s.Step(cfg.Dt, iterations, cfg.Omega, cfg.Force)
		if err != nil {
			return nil, err
		}
		result.StepsTaken++

		if !s.field.Finite() {
			result.Errors = append(result.Errors, &SimulationError{Step: st.Step, Time: st.Time, Wrapped: ErrUnstable})
			break
		}

		if result.StepsTaken%every == 0 || i == cfg.Steps-1 {
			result.Samples = append(result.Samples, s.sample(cfg.Probes, st.Projection))
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulation) sample(probes []Probe, ps projection.Stats) Sample {
	smp := Sample{
		Step:          s.steps,
		Time:          s.time,
		Residual:      ps.Residual,
		MaxDivergence: s.field.MaxDivergence(),
		Skipped:       ps.Skipped,
	}
	if len(probes) > 0 {
		smp.Probes = make([]r2.Vec, len(probes))
		for n, p := range probes {
			smp.Probes[n] = s.SampleVelocity(p.X, p.Y)
		}
	}
	return smp
}

func (s *Simulation) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.field.Snapshot()
}
