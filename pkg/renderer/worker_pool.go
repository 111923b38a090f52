package renderer

import (
	"sync"
	"sync/atomic"
)

// scanlineQueue hands out rows to whichever worker asks next.
// Once Next reports false it keeps doing so.
type scanlineQueue struct {
	next   atomic.Int64
	height int64
}

func newScanlineQueue(height int) *scanlineQueue {
	return &scanlineQueue{height: int64(height)}
}

// Next claims the next unrendered row
func (q *scanlineQueue) Next() (int, bool) {
	y := q.next.Add(1) - 1
	if y >= q.height {
		return 0, false
	}
	return int(y), true
}

// runWorkers starts numWorkers goroutines running work and blocks until all return
func runWorkers(numWorkers int, work func(workerID int)) {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			work(id)
		}(i)
	}
	wg.Wait()
}
