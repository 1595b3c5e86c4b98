package service

import (
	"context"
	"errors"
	"testing"

	"finflow/internal/job"
	resultMocks "finflow/internal/result/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusService_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("known job", func(t *testing.T) {
		mResults := new(resultMocks.MockStore)
		mResults.On("Get", ctx, "job-1").Return(&job.Update{
			JobID:  "job-1",
			Status: job.StatusSuccess,
			Result: &job.Result{DocumentID: 42, TransactionsInserted: 2},
		}, true, nil)

		u, err := NewStatusService(mResults).Check(ctx, "job-1")

		require.NoError(t, err)
		assert.Equal(t, job.StatusSuccess, u.Status)
		require.NotNil(t, u.Result)
		assert.Equal(t, 2, u.Result.TransactionsInserted)
		mResults.AssertExpectations(t)
	})

	t.Run("unknown job is not a failure", func(t *testing.T) {
		mResults := new(resultMocks.MockStore)
		mResults.On("Get", ctx, "never-issued").Return(nil, false, nil)

		u, err := NewStatusService(mResults).Check(ctx, "never-issued")

		require.NoError(t, err)
		assert.Equal(t, job.StatusUnknown, u.Status)
		assert.Equal(t, "never-issued", u.JobID)
		assert.Nil(t, u.Result)
		assert.Empty(t, u.ErrorKind)
		mResults.AssertExpectations(t)
	})

	t.Run("store error propagates", func(t *testing.T) {
		mResults := new(resultMocks.MockStore)
		mResults.On("Get", ctx, "job-2").Return(nil, false, errors.New("redis down"))

		u, err := NewStatusService(mResults).Check(ctx, "job-2")

		assert.Error(t, err)
		assert.Nil(t, u)
		mResults.AssertExpectations(t)
	})
}
