package mocks

import (
	"context"

	"finflow/internal/model"
	"finflow/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveBatch(ctx context.Context, documentID int64, txns []model.Transaction) (int, error) {
	args := m.Called(ctx, documentID, txns)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) ListByDocument(ctx context.Context, documentID int64, pq repository.PageQuery) (*repository.PageResult[model.Transaction], error) {
	args := m.Called(ctx, documentID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Transaction]), args.Error(1)
}
