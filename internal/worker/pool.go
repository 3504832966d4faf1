package worker

import (
	"context"
	"sync"

	"github.com/baharkarakas/authmonitor/internal/metrics"
)

type task func()

type Pool struct {
	wg   sync.WaitGroup
	jobs chan task
}

func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan task, 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Dec()
				job()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f func()) {
	metrics.WorkerQueueDepth.Inc()
	p.jobs <- f
}

// Run submits every fn and blocks until all of them returned.
// Must not be called from inside a pool job.
func (p *Pool) Run(fns ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for _, fn := range fns {
		p.Submit(func() {
			defer wg.Done()
			fn()
		})
	}
	wg.Wait()
}

func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }

// Shutdown is Stop bounded by ctx. Jobs still running when ctx ends are left
// behind and ctx.Err() is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	close(p.jobs)
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
