// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worker runs independent per-bundle jobs on a bounded goroutine
// pool while preserving input order, so batch output is identical for any
// worker count.
// Implements: prd001-extraction R6.2, prd002-verification R6.2;
//
//	docs/ARCHITECTURE § Batch Processing.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// Map applies fn to every item on up to workers goroutines and returns the
// results in input order. workers <= 0 selects one worker per CPU; one
// worker runs inline with no goroutines. Cancelling ctx stops dispatch, and
// Map returns the context error once in-flight jobs drain.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(T) R) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	if workers == 1 {
		out := make([]R, 0, len(items))
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out = append(out, fn(item))
		}
		return out, nil
	}

	type job struct {
		index int
		item  T
	}
	type result struct {
		index int
		value R
	}

	jobs := make(chan job)
	// Buffered to len(items) so workers never block on delivery and the
	// collector can simply drain until close.
	results := make(chan result, len(items))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- result{index: j.index, value: fn(j.item)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, item: item}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, len(items))
	done := 0
	for r := range results {
		out[r.index] = r.value
		done++
	}
	if err := ctx.Err(); err != nil && done < len(items) {
		return nil, err
	}
	return out, nil
}
