package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"finflow/internal/model"
	repomocks "finflow/internal/repository/mocks"
)

func newTestSweeper(t *testing.T) (*Sweeper, *repomocks.MockDocumentRepository) {
	t.Helper()
	docs := new(repomocks.MockDocumentRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewSweeper(docs, time.Minute, time.Hour, logger, prometheus.NewRegistry())
	require.NoError(t, err)
	return s, docs
}

func TestSweepReportsStuckDocuments(t *testing.T) {
	s, docs := newTestSweeper(t)

	stuck := []model.Document{
		{ID: 7, Filename: "january.csv", StoragePath: "documents/a/january.csv.enc", UploadedAt: time.Now().Add(-3 * time.Hour)},
		{ID: 9, Filename: "february.csv", StoragePath: "documents/b/february.csv.enc", UploadedAt: time.Now().Add(-2 * time.Hour)},
	}
	docs.On("ListUnprocessedBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		// Cutoff must sit roughly minAge in the past.
		age := time.Since(cutoff)
		return age > 59*time.Minute && age < 61*time.Minute
	}), sweepLimit).Return(stuck, nil)

	assert.Equal(t, 2, s.Sweep(context.Background()))
	docs.AssertExpectations(t)
}

func TestSweepNothingStuck(t *testing.T) {
	s, docs := newTestSweeper(t)
	docs.On("ListUnprocessedBefore", mock.Anything, mock.Anything, sweepLimit).Return([]model.Document{}, nil)

	assert.Equal(t, 0, s.Sweep(context.Background()))
}

func TestSweepSurvivesRepositoryError(t *testing.T) {
	s, docs := newTestSweeper(t)
	docs.On("ListUnprocessedBefore", mock.Anything, mock.Anything, sweepLimit).Return(nil, errors.New("connection refused"))

	assert.Equal(t, 0, s.Sweep(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	s, docs := newTestSweeper(t)
	docs.On("ListUnprocessedBefore", mock.Anything, mock.Anything, sweepLimit).Return([]model.Document{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop after context cancel")
	}
}
