package pipeline

import (
	"fmt"
	"runtime"
	"sync"
)

type Task func(id string) error

// Run calls fn for every participant id using at most workers goroutines.
// Failures are collected, not fatal; each error names the id it came from.
func Run(ids []string, workers int, fn Task) []error {
	if len(ids) == 0 || fn == nil {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan string)
	errs := make(chan error, len(ids))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := fn(id); err != nil {
					errs <- fmt.Errorf("participant %s: %w", id, err)
				}
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(errs)

	out := make([]error, 0, len(errs))
	for err := range errs {
		out = append(out, err)
	}
	return out
}
