package experiment

import (
	"context"
	"runtime"
	"sync"
)

// Ensemble runs independent episodes concurrently, one simulator per run.
type Ensemble struct {
	build     func(seed int64) (*Experiment, error)
	numRuns   int
	seedStart int64
	Workers   int
}

func NewEnsemble(build func(seed int64) (*Experiment, error), numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		build:     build,
		numRuns:   numRuns,
		seedStart: seedStart,
		Workers:   runtime.NumCPU(),
	}
}

// Run returns results ordered by run index; run i uses seed seedStart+i.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			exp, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
