package queue

import (
	"context"
	"errors"

	"finflow/internal/job"
)

// Package queue carries ingestion job descriptors from the intake process to
// the worker pool. Delivery is at-least-once: a job may be handed to a worker
// again after a crash, so consumers must tolerate re-execution. Delivery of
// one job never goes to two workers at the same time.

// ErrClosed is returned by Dequeue when the queue connection has been closed
// and no further jobs will be delivered.
var ErrClosed = errors.New("queue closed")

type Queue interface {
	// Enqueue submits a job for processing. It returns once the job is
	// durably on the queue; the job identifier must already be assigned.
	Enqueue(ctx context.Context, j job.Job) error

	// Dequeue blocks until a job is available, the context is cancelled, or
	// the queue is closed. Each delivered job goes to exactly one caller.
	Dequeue(ctx context.Context) (*job.Job, error)
}
