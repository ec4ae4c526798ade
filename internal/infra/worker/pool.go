package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-calorie-diary/internal/infra/metrics"
	"telegram-calorie-diary/internal/usecase"
)

// Executor is what each worker runs a dequeued task through.
type Executor interface {
	Execute(ctx context.Context, t usecase.Task) error
}

// Pool is a fixed set of workers draining one shared bounded queue. The
// queue is the system's backpressure: Enqueue blocks producers (the polling
// loop and the reminder scheduler) when workers fall behind, and accepted
// tasks are never dropped or reordered. A failing task is reported and the
// worker moves on.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan usecase.Task
	exec Executor
	n    int
	log  *zerolog.Logger
}

func NewPool(workers, capacity int, exec Executor, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if capacity <= 0 {
		capacity = 20
	}
	compLog := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{
		jobs: make(chan usecase.Task, capacity),
		exec: exec,
		n:    workers,
		log:  &compLog,
	}
}

// Enqueue blocks while the queue is full, until ctx is cancelled.
func (p *Pool) Enqueue(ctx context.Context, t usecase.Task) error {
	select {
	case p.jobs <- t:
		metrics.SetQueueDepth(len(p.jobs))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the workers. They run until ctx is cancelled; Wait blocks
// until every worker has returned.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-p.jobs:
					metrics.SetQueueDepth(len(p.jobs))
					p.run(ctx, id, t)
				}
			}
		}(i)
	}
	p.log.Info().Int("workers", p.n).Int("capacity", cap(p.jobs)).Msg("worker pool started")
}

func (p *Pool) Wait() { p.wg.Wait() }

// run isolates one task execution: any fault is reported and the worker
// stays in its loop.
func (p *Pool) run(ctx context.Context, id int, t usecase.Task) {
	if err := p.exec.Execute(ctx, t); err != nil {
		metrics.IncTaskFailed(string(t.Kind))
		p.log.Error().Err(err).
			Int("worker", id).
			Str("task_id", t.ID).
			Str("kind", string(t.Kind)).
			Int64("tg_id", t.TelegramID).
			Msg("task failed")
		return
	}
	metrics.IncTaskProcessed(string(t.Kind))
}
