// Package worker is a small generic pool for running the same function over
// many inputs with bounded concurrency. Parses are independent of each
// other, so bulk indexing fans out across it freely.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Task pairs an input with its outcome.
type Task[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs a ProcessFunc with a fixed number of workers.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Execute runs all inputs through the pool. Results keep input order;
// inputs the pool never reached before cancellation carry the context's
// error, so consumers checking Err see every unprocessed task.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Task[T, R] {
	results := make([]Task[T, R], len(inputs))
	processed := make([]bool, len(inputs))
	inputCh := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					results[idx] = Task[T, R]{Input: inputs[idx], Result: result, Err: err}
					processed[idx] = true
					if err != nil {
						log.Error().Err(err).Int("index", idx).Msg("Task failed")
					}
				}
			}
		}()
	}

	for i := range inputs {
		inputCh <- i
	}
	close(inputCh)

	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if !processed[i] {
				results[i] = Task[T, R]{Input: inputs[i], Err: err}
			}
		}
	}
	return results
}
