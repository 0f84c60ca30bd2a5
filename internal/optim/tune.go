package optim

import (
	"context"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/config"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/metrics"
)

const (
	ParamOmega      = "omega"
	ParamIterations = "iterations"
)

// TuneProjection searches over-relaxation factors and sweep counts for the
// pair that leaves the least mean divergence over a run of sc. A viscosity
// set on the scene is ignored so the sweep count stays under control. Up to
// parallel trials run at once.
func TuneProjection(ctx context.Context, sc *config.Scene, omegas, iterations []float64, parallel int) (*GridSearch, map[string]float64, float64, error) {
	gs := NewGridSearch([]string{ParamOmega, ParamIterations}, [][]float64{omegas, iterations})
	gs.Parallel = parallel

	build := func(params map[string]float64) (*Trial, error) {
		trial := *sc
		trial.Omega = params[ParamOmega]
		trial.Iterations = int(params[ParamIterations])
		trial.Viscosity = 0

		sim, err := trial.Build(flow.WithMetric(metrics.NewDivergence()))
		if err != nil {
			return nil, err
		}
		return &Trial{Sim: sim, Run: trial.RunConfig()}, nil
	}

	best, val, err := gs.Search(ctx, build, metrics.NewDivergence().Name())
	return gs, best, val, err
}
