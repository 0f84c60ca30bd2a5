package flow

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations concurrently, at most limit at a
// time. Members must not share fields, metrics or observers.
type Ensemble struct {
	members []*Simulation
	configs []RunConfig
	limit   int
}

// NewEnsemble returns an empty ensemble; a limit below one runs members
// one after another.
func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{limit: max(limit, 1)}
}

// Add registers a member and returns its index in the results.
func (e *Ensemble) Add(s *Simulation, cfg RunConfig) int {
	e.members = append(e.members, s)
	e.configs = append(e.configs, cfg)
	return len(e.members) - 1
}

func (e *Ensemble) Len() int { return len(e.members) }

// Run executes every member and returns results and errors by index.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, []error) {
	results := make([]*Result, len(e.members))
	errs := make([]error, len(e.members))
	sem := make(chan struct{}, e.limit)

	var wg sync.WaitGroup
	for i := range e.members {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = e.members[idx].Run(ctx, e.configs[idx])
		}(i)
	}

	wg.Wait()
	return results, errs
}
