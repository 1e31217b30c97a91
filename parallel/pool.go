// Package parallel runs independent CPU bound work on a fixed set of workers.
package parallel

import (
	"runtime"
	"sync"
)

// Pool is a fixed set of worker goroutines fed through a channel. A nil *Pool
// is valid and runs all work inline on the calling goroutine.
type Pool struct {
	wg      sync.WaitGroup
	work    chan func()
	workers int
	stop    func()
}

// Start launches numWorkers workers, or GOMAXPROCS workers when numWorkers < 1.
// With a single worker no goroutine is started and work runs inline.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		stop:    func() {},
	}

	if numWorkers > 1 {
		pool.work = make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.work {
					f()
				}
			})
		}

		pool.stop = sync.OnceFunc(func() { close(pool.work) })
	}

	return pool
}

// Workers reports how many goroutines execute work. A nil pool has one.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Do queues f, blocking while all workers are busy and the queue is full.
// Work must not be queued after Stop.
func (p *Pool) Do(f func()) {
	if p == nil || p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Stop lets the workers drain the queue and waits for them to exit.
func (p *Pool) Stop() {
	if p == nil {
		return
	}
	p.stop()
	p.wg.Wait()
}

// Batch tracks completion of a group of work items queued on a pool.
type Batch struct {
	pool *Pool
	wg   sync.WaitGroup
}

func (p *Pool) Batch() *Batch {
	return &Batch{pool: p}
}

func (b *Batch) Do(f func()) {
	b.wg.Add(1)
	b.pool.Do(func() {
		defer b.wg.Done()
		f()
	})
}

// Wait blocks until every item queued on the batch has finished.
func (b *Batch) Wait() {
	b.wg.Wait()
}

// For calls fn(lo, hi) over consecutive chunks covering [0, n) and returns
// once all chunks are done. Chunks are sized to give every worker a few of
// them. It must not be called from inside a work item of the same pool.
func For(p *Pool, n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}

	workers := p.Workers()
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := max(1, n/(4*workers))
	batch := p.Batch()
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		batch.Do(func() { fn(lo, hi) })
	}
	batch.Wait()
}
