package main

import (
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// forEach calls fn for every input on a bounded worker pool and returns the
// results in input order.
func forEach[T any](inputs []string, fn func(string) T) ([]T, error) {
	results := make([]T, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(min(len(inputs), runtime.GOMAXPROCS(0)))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var submitErr error
	for i, in := range inputs {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = fn(in)
		}); err != nil {
			wg.Done()
			submitErr = err
			break
		}
	}
	wg.Wait()

	if submitErr != nil {
		return nil, submitErr
	}
	return results, nil
}
