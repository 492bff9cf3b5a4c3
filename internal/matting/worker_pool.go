package matting

import (
	"runtime"
	"sync"
)

// strip is a half-open row range [start, end) processed by one worker.
type strip struct {
	start, end int
}

// partitionRows splits height rows into at most workers contiguous strips.
// Strips are returned in ascending row order so per-strip accumulators can
// be merged deterministically regardless of goroutine scheduling.
func partitionRows(height, workers int) []strip {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}
	rowsPerWorker := (height + workers - 1) / workers // ceil division

	strips := make([]strip, 0, workers)
	for start := 0; start < height; start += rowsPerWorker {
		end := start + rowsPerWorker
		if end > height {
			end = height
		}
		strips = append(strips, strip{start: start, end: end})
	}
	return strips
}

// forEachStrip runs fn once per strip on its own goroutine and blocks until
// every strip completes. The barrier it provides is what keeps pipeline
// stages strictly sequential: no stage starts before this returns. The
// strip index passed to fn addresses per-strip result slots, so reductions
// stay bit-stable across worker counts.
func forEachStrip(height, workers int, fn func(idx int, s strip)) int {
	strips := partitionRows(height, workers)
	if len(strips) == 1 {
		fn(0, strips[0])
		return 1
	}

	var wg sync.WaitGroup
	for i, s := range strips {
		wg.Add(1)
		go func(idx int, s strip) {
			defer wg.Done()
			fn(idx, s)
		}(i, s)
	}
	wg.Wait()
	return len(strips)
}
