// Package parallel splits independent row work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config configures parallel processing behavior.
type Config struct {
	// NumWorkers is the number of worker goroutines. 0 means runtime.GOMAXPROCS(0),
	// 1 forces sequential execution.
	NumWorkers int

	// GrainSize is the minimum number of items per worker before work is
	// split. If n < GrainSize * workers, the loop runs sequentially.
	GrainSize int
}

// DefaultConfig returns the default configuration.
// Rows are cheap to filter, so the grain is large enough that small
// images never pay for goroutine startup.
func DefaultConfig() Config {
	return Config{
		NumWorkers: 0,
		GrainSize:  64,
	}
}

// Workers returns the number of workers c resolves to.
func (c Config) Workers() int {
	if c.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.NumWorkers
}

// Chunks calls fn once per contiguous range [start, end) covering [0, n).
// Ranges run concurrently unless n is too small for the configured grain.
// Each call owns its range exclusively, so fn may keep per-range scratch
// state without locking.
func Chunks(n int, c Config, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	numWorkers := c.Workers()
	grain := c.GrainSize
	if grain < 1 {
		grain = 1
	}

	// Run sequentially if not worth parallelizing
	if numWorkers == 1 || n < grain*numWorkers {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
