// Package parallel splits index ranges across goroutines.
//
// Row scoring in the estimators and candidate evaluation in grid search both
// use these helpers; each worker receives a disjoint [start, end) range, so
// callers can write to pre-allocated outputs without locking.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the item count below which work stays on the calling goroutine.
const DefaultThreshold = 1000

// Parallelize divides items into one contiguous chunk per CPU core and calls
// fn for each chunk concurrently. It returns after every chunk has finished.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeN(items, runtime.NumCPU(), fn)
}

// ParallelizeN is Parallelize with an explicit worker count. workers < 1 means
// runtime.NumCPU().
func ParallelizeN(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) sequentially when items does not
// exceed threshold, and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// ForEach calls fn once per index on up to workers goroutines and returns the
// error with the lowest index, if any. All indices are visited even after an
// error so results stay deterministic.
func ForEach(items, workers int, fn func(i int) error) error {
	if items <= 0 {
		return nil
	}
	errs := make([]error, items)
	ParallelizeN(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = fn(i)
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
