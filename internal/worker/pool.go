package worker

import (
	"sync"

	"github.com/pesa-dev/networth_snapshot_service/internal/metrics"
)

type task func()

// Pool is a fixed-size worker pool. The sweep uses it to bound per-user
// fan-out to the store's concurrent-request budget.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

// NewPool starts n workers over a shared task queue.
func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
				metrics.WorkerQueueDepth.Dec()
			}
		}()
	}
	return p
}

// Submit enqueues a task. Blocks when the queue is full.
func (p *Pool) Submit(f task) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}
