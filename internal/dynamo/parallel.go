package dynamo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Builder constructs a fresh system for the given seed.
type Builder func(seed int64) (System, error)

// Ensemble runs independent copies of a system with consecutive seeds. Each
// run owns its system, so the sequential step semantics of a single system
// are untouched.
type Ensemble struct {
	build     Builder
	metrics   func() []Metric
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(build Builder, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		build:     build,
		metrics:   metrics,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   runtime.NumCPU(),
	}
}

// SetWorkers bounds the number of runs executing at once.
func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d: %w", e.numRuns, ErrParameterBounds)
	}
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sys, err := e.build(cfgCopy.Seed)
			if err != nil {
				return fmt.Errorf("run %d: %w", idx, err)
			}

			s := New(sys)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, cfgCopy)
			if err != nil {
				return fmt.Errorf("run %d: %w", idx, err)
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Mean averages one final metric across ensemble results.
func Mean(results []*Result, metric string) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Metrics[metric]
	}
	return sum / float64(len(results))
}
