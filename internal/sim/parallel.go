package sim

import (
	"runtime"
	"sync"
)

// Problem sizes below these thresholds run serially; the fan-out cost
// dominates for small arrays.
const (
	minParallelSprings   = 1024
	minParallelParticles = 1024
)

// ResolveWorkers returns the effective worker count for a request.
// Zero or negative means one worker per logical CPU.
func ResolveWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.GOMAXPROCS(0)
}

// ParallelRanges splits [0, n) into one contiguous chunk per worker and
// runs fn(worker, lo, hi) concurrently. It returns after all workers
// complete, forming the barrier between simulation passes.
func ParallelRanges(n, workers int, fn func(worker, lo, hi int)) {
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}

		hi := lo + chunk
		if hi > n {
			hi = n
		}

		wg.Add(1)
		go func(worker, lo, hi int) {
			defer wg.Done()
			fn(worker, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()
}
