package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	Err() error
}

// Pool executes jobs across a fixed number of workers. Each submitted job
// runs exactly once; results arrive in completion order, not submission
// order.
type Pool struct {
	workers       int
	jobs          chan Job
	results       chan Result
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	closeJobsOnce sync.Once
	closeOnce     sync.Once
}

// NewPool creates a pool with the given worker count (minimum 1)
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			select {
			case p.results <- job.Execute(p.ctx):
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after Wait or Shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Close marks the end of submissions. Queued jobs still run to completion.
func (p *Pool) Close() {
	p.closeJobsOnce.Do(func() { close(p.jobs) })
}

// Wait closes the queue, waits for in-flight jobs, and returns all results.
// Callers that submit from another goroutine use Close and Collect instead:
// the submitting side blocks once the queue fills, so submission and
// collection must not share a goroutine for large batches.
func (p *Pool) Wait() []Result {
	p.Close()
	return p.Collect()
}

// Collect drains results until the queue is closed and all workers finish
func (p *Pool) Collect() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown cancels outstanding work and releases the workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() { close(p.results) })
}
