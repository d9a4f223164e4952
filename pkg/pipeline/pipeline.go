// Package pipeline fans replay files out to a bounded worker pool and funnels
// every extraction result through a single writer, the one serialization
// point that keeps corpus read-modify-writes race-free.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// DefaultWorkers is used when the caller passes a non-positive worker count.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Result carries one file's extraction outcome from a worker to the writer.
type Result[T any] struct {
	Filename string
	Output   T
	Err      error
}

// Extractor derives a file's output. It must be pure with respect to shared
// state; it runs concurrently across files.
type Extractor[T any] func(ctx context.Context, filename string) (T, error)

// Applier consumes results sequentially on the writer goroutine.
type Applier[T any] func(result Result[T]) error

// Run processes files through workers concurrent extractors and applies each
// result exactly once, in completion order, on a single goroutine. It returns
// the first apply error, or ctx.Err() when cancelled; extraction errors are
// passed through to the applier rather than aborting the batch.
func Run[T any](ctx context.Context, files []string, workers int, extract Extractor[T], apply Applier[T]) error {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan string)
	results := make(chan Result[T])

	var wg sync.WaitGroup

	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()

			for filename := range jobs {
				output, err := extract(ctx, filename)

				select {
				case results <- Result[T]{Filename: filename, Output: output, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Dispatch until done or cancelled.
	go func() {
		defer close(jobs)

		for _, filename := range files {
			select {
			case jobs <- filename:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var applyErr error

	for result := range results {
		if applyErr != nil {
			// Already failing; drain so the workers can exit.
			continue
		}

		err := apply(result)
		if err != nil {
			applyErr = fmt.Errorf("apply result for %s: %w", result.Filename, err)

			cancel()
		}
	}

	if applyErr != nil {
		return applyErr
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return nil
}
