package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"finflow/internal/job"
	"finflow/internal/queue"
	queuemocks "finflow/internal/queue/mocks"
)

func TestPoolDrainsOnClosedQueue(t *testing.T) {
	p, m := newTestPipeline(t)

	doc := unprocessedDoc()
	doc.Processed = true
	expectPublishes(m)
	m.docs.On("FindByID", mock.Anything, int64(42)).Return(doc, nil)

	j := testJob()
	q := new(queuemocks.MockQueue)
	q.On("Dequeue", mock.Anything).Return(&j, nil).Once()
	q.On("Dequeue", mock.Anything).Return(nil, queue.ErrClosed)

	pool := NewPool(q, p, 1, time.Minute, testLogger())

	done := make(chan struct{})
	go func() {
		pool.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not drain after queue closed")
	}

	// The dequeued job ran to a terminal state before the worker stopped.
	m.results.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(u job.Update) bool {
		return u.JobID == j.ID && u.Status == job.StatusSuccess
	}))
}

func TestPoolStopsOnContextCancel(t *testing.T) {
	p, _ := newTestPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	q := new(queuemocks.MockQueue)
	q.On("Dequeue", mock.Anything).Return(nil, context.Canceled)

	pool := NewPool(q, p, 2, time.Minute, testLogger())

	cancel()
	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop after context cancel")
	}
}

func TestPoolSurvivesTransientDequeueError(t *testing.T) {
	p, m := newTestPipeline(t)

	doc := unprocessedDoc()
	doc.Processed = true
	expectPublishes(m)
	m.docs.On("FindByID", mock.Anything, int64(42)).Return(doc, nil)

	ctx, cancel := context.WithCancel(context.Background())

	j := testJob()
	q := new(queuemocks.MockQueue)
	q.On("Dequeue", mock.Anything).Return(&j, nil).Once()
	// A broker hiccup after the first job; cancelling the context inside the
	// backoff wait stops the worker.
	q.On("Dequeue", mock.Anything).Return(nil, errors.New("i/o timeout")).Run(func(mock.Arguments) {
		cancel()
	})

	pool := NewPool(q, p, 1, time.Minute, testLogger())

	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop")
	}

	assert.GreaterOrEqual(t, len(q.Calls), 2)
}
