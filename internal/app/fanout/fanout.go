// Package fanout runs a function across a slice of items with a fixed number
// of worker goroutines, preserving input order in the results. The bulk user
// import uses it for non-atomic batches, where every item succeeds or fails
// on its own.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPanic wraps a value recovered from a panicking fn.
var ErrPanic = errors.New("fanout: worker panicked")

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes fn for each item using at most maxWorkers concurrent
// goroutines; values below 1 are treated as 1. Results are returned in input
// order.
//
// Items still waiting for a worker when ctx is canceled record ctx.Err()
// without calling fn. A panic in fn is recovered and recorded as an error
// wrapping ErrPanic, so one bad item cannot take down the batch.
//
// Run blocks until every item is settled. An empty input yields an empty
// non-nil slice.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	results := make([]Result[R], len(items))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result[R]{Err: ctx.Err()}
				return
			}

			results[idx] = call(ctx, fn, it)
		}(i, item)
	}

	wg.Wait()
	return results
}

// Errors returns the non-nil errors from results, in input order.
func Errors[R any](results []Result[R]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

func call[T, R any](ctx context.Context, fn func(context.Context, T) (R, error), it T) (res Result[R]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[R]{Err: fmt.Errorf("%w: %v", ErrPanic, p)}
		}
	}()
	val, err := fn(ctx, it)
	return Result[R]{Value: val, Err: err}
}
