package worker

import (
	"sync"

	"github.com/avestra/bank-analytics/pkg/logger"
)

type Handler = func(workerIndex int, job interface{})

// Pool distributes jobs over a fixed set of goroutines. The pool owns
// its job channel: Close stops intake and blocks until every queued job
// has been handled, so callers get drain semantics for free.
type Pool struct {
	jobs    chan interface{}
	workers int
	do      Handler
	wg      sync.WaitGroup
	once    sync.Once
}

func NewPool(bufferSize, workers int) *Pool {
	if bufferSize < 0 {
		bufferSize = 0
	}
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		jobs:    make(chan interface{}, bufferSize),
		workers: workers,
	}
}

// SetHandler must be called before Start.
func (p *Pool) SetHandler(h Handler) {
	p.do = h
}

// Enqueue publishes a job. Blocks when the buffer is full.
func (p *Pool) Enqueue(job interface{}) {
	p.jobs <- job
}

// Pending reports how many jobs are buffered but not yet picked up.
func (p *Pool) Pending() int {
	return len(p.jobs)
}

// Start launches the workers and returns immediately.
func (p *Pool) Start() {
	if p.do == nil {
		panic("worker: Start called without a handler")
	}
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(index int) {
			defer p.wg.Done()
			for job := range p.jobs {
				p.do(index, job)
			}
		}(i)
	}
}

// Close stops accepting jobs and blocks until the queue is drained.
// Safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() {
		logger.Debug("worker pool closing", "pending", len(p.jobs))
		close(p.jobs)
	})
	p.wg.Wait()
}
