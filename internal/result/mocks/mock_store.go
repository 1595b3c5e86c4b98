package mocks

import (
	"context"

	"finflow/internal/job"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Publish(ctx context.Context, u job.Update) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, jobID string) (*job.Update, bool, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*job.Update), args.Bool(1), args.Error(2)
}
