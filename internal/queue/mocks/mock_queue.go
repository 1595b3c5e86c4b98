package mocks

import (
	"context"

	"finflow/internal/job"

	"github.com/stretchr/testify/mock"
)

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, j job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockQueue) Dequeue(ctx context.Context) (*job.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}
