package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"finflow/internal/queue"
)

// dequeueBackoff is how long a worker sleeps after a queue error before
// trying again. Transient broker hiccups are absorbed here; a closed queue
// or cancelled context stops the worker instead.
const dequeueBackoff = 3 * time.Second

// Pool runs a fixed number of workers, each pulling one job at a time from
// the queue and running it through the pipeline. A job, once dequeued, runs
// to a terminal state even while the pool is shutting down.
type Pool struct {
	queue    queue.Queue
	pipeline *Pipeline
	workers  int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPool constructs a worker pool. timeout bounds a single job's execution.
func NewPool(q queue.Queue, pipeline *Pipeline, workers int, timeout time.Duration, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{queue: q, pipeline: pipeline, workers: workers, timeout: timeout, logger: logger}
}

// Run blocks until ctx is cancelled and every worker has drained its current
// job.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.loop(ctx, workerID)
		}(i + 1)
	}
	wg.Wait()
	p.logger.Info("worker pool drained")
}

func (p *Pool) loop(ctx context.Context, workerID int) {
	p.logger.Info("worker started", "worker_id", workerID)
	defer p.logger.Info("worker stopped", "worker_id", workerID)

	for {
		j, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, queue.ErrClosed) {
				return
			}
			p.logger.Error("dequeue failed", "worker_id", workerID, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(dequeueBackoff):
			}
			continue
		}

		p.logger.Info("job dequeued", "worker_id", workerID, "job_id", j.ID, "document_id", j.DocumentID)

		// The job context is detached from pool shutdown: a dequeued job is
		// owed a terminal state.
		jobCtx, cancel := context.WithTimeout(context.Background(), p.timeout)
		p.pipeline.Process(jobCtx, *j)
		cancel()
	}
}
