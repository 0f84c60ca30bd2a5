package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Sam-MARTis/EulerianFluidSimulator/internal/flow"
)

var ErrNoTrial = errors.New("optim: no trial completed")

// Trial is a simulation ready to run with its run settings.
type Trial struct {
	Sim *flow.Simulation
	Run flow.RunConfig
}

// Outcome records one evaluated point of the search.
type Outcome struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	// Parallel bounds how many trials run at once; below one means serial.
	Parallel int

	paramNames []string
	ranges     [][]float64
	outcomes   []Outcome
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, Parallel: 1}
}

// Outcomes lists every point evaluated by the last Search, in grid order.
func (g *GridSearch) Outcomes() []Outcome { return g.outcomes }

// Search runs one trial per point of the parameter grid and returns the
// point minimizing the named metric. Trials that fail, go unstable or
// produce a non-finite metric never win; ties go to the earlier point.
func (g *GridSearch) Search(
	ctx context.Context,
	buildTrial func(params map[string]float64) (*Trial, error),
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	var points []map[string]float64
	g.enumerate(0, make(map[string]float64), &points)

	g.outcomes = make([]Outcome, len(points))
	ens := flow.NewEnsemble(g.Parallel)
	member := make([]int, len(points))
	for i, params := range points {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		g.outcomes[i] = Outcome{Params: params, Value: math.NaN()}
		member[i] = -1

		trial, err := buildTrial(params)
		if err != nil {
			g.outcomes[i].Err = err
			continue
		}
		member[i] = ens.Add(trial.Sim, trial.Run)
	}

	results, errs := ens.Run(ctx)

	best := math.Inf(1)
	var bestParams map[string]float64
	for i := range g.outcomes {
		if member[i] < 0 {
			continue
		}
		o := &g.outcomes[i]
		o.Value, o.Err = score(results[member[i]], errs[member[i]], metricName)
		if errors.Is(o.Err, flow.ErrCanceled) {
			return bestParams, best, o.Err
		}
		if o.Err == nil && o.Value < best {
			best = o.Value
			bestParams = make(map[string]float64)
			for k, v := range o.Params {
				bestParams[k] = v
			}
		}
	}

	if bestParams == nil {
		return nil, 0, ErrNoTrial
	}
	return bestParams, best, nil
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, points *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*points = append(*points, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.enumerate(depth+1, newParams, points)
	}
}

func score(result *flow.Result, err error, metricName string) (float64, error) {
	if err != nil {
		return math.NaN(), err
	}
	if len(result.Errors) > 0 {
		return math.NaN(), result.Errors[0]
	}

	val, ok := result.Metrics[metricName]
	if !ok {
		return math.NaN(), fmt.Errorf("optim: metric %q not recorded", metricName)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val, fmt.Errorf("optim: metric %q is %v", metricName, val)
	}
	return val, nil
}
