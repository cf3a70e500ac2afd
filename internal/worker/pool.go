package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrPoolStopped is returned for jobs that could not be handed to a worker.
var ErrPoolStopped = errors.New("worker pool is not running")

// Job is one unit of work. Key identifies the resource the job touches and
// is only used for logging; callers put work on the same resource into a
// single job so it runs sequentially.
type Job struct {
	Key string
	Run func(ctx context.Context) error
}

type task struct {
	ctx   context.Context
	job   Job
	index int
	done  chan<- result
}

type result struct {
	index int
	err   error
}

// Pool executes batches of independent jobs on a fixed set of goroutines.
type Pool struct {
	workers int
	logger  *slog.Logger

	tasks   chan task
	stopped chan struct{}
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// NewPool constructs a pool with the given number of workers.
func NewPool(workers int, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		logger:  logger,
		tasks:   make(chan task),
		stopped: make(chan struct{}),
	}
}

// Start launches the workers.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stopped = make(chan struct{})
	p.running = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}
}

// Stop signals workers to exit and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.running {
		close(p.stopped)
		p.running = false
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Run hands every job to the pool and blocks until all accepted jobs have
// finished. The returned slice holds one error per job, in input order.
func (p *Pool) Run(ctx context.Context, jobs []Job) []error {
	errs := make([]error, len(jobs))

	p.mu.Lock()
	running, stopped := p.running, p.stopped
	p.mu.Unlock()
	if !running {
		for i := range errs {
			errs[i] = ErrPoolStopped
		}
		return errs
	}

	results := make(chan result, len(jobs))
	submitted := 0
	for i, job := range jobs {
		select {
		case p.tasks <- task{ctx: ctx, job: job, index: i, done: results}:
			submitted++
		case <-ctx.Done():
			errs[i] = ctx.Err()
		case <-stopped:
			errs[i] = ErrPoolStopped
		}
	}

	for ; submitted > 0; submitted-- {
		r := <-results
		errs[r.index] = r.err
	}
	return errs
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.tasks:
			t.done <- result{index: t.index, err: p.execute(t)}
		}
	}
}

func (p *Pool) execute(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker job panicked", slog.String("key", t.job.Key), slog.Any("panic", r))
			err = errors.New("worker job panicked")
		}
	}()
	return t.job.Run(t.ctx)
}
