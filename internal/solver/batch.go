package solver

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/trussim/internal/truss"
)

// BatchConfig controls SolveBatch.
type BatchConfig struct {
	Tolerance float64
	Logger    *log.Logger
	Workers   int // defaults to 4
}

// BatchResult pairs a model with its outcome. Exactly one of Result and Err is set.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// SolveBatch solves each model on its own clone with its own Solver.
// Models not started before ctx is canceled report ctx.Err().
func SolveBatch(ctx context.Context, models []*truss.Model, cfg BatchConfig) []BatchResult {
	results := make([]BatchResult, len(models))
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = solveOne(ctx, models[idx], cfg)
			}
		}()
	}

	for i := range models {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(models); j++ {
				results[j] = BatchResult{Name: models[j].Name, Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func solveOne(ctx context.Context, model *truss.Model, cfg BatchConfig) BatchResult {
	if err := ctx.Err(); err != nil {
		return BatchResult{Name: model.Name, Err: err}
	}
	s := New(model.Clone(), WithTolerance(cfg.Tolerance), WithLogger(cfg.Logger))
	if err := s.Solve(); err != nil {
		return BatchResult{Name: model.Name, Err: err}
	}
	res, err := s.Result()
	return BatchResult{Name: model.Name, Result: res, Err: err}
}
