package service

import (
	"context"

	"finflow/internal/job"
	"finflow/internal/result"
)

// StatusService answers job-status polls. It only reads the result channel
// and never blocks waiting for a job to finish.
type StatusService interface {
	// Check returns the last known update for a job identifier. An
	// identifier that was never issued, or whose entry has expired, yields
	// an update with StatusUnknown — not an error and not a FAILURE.
	Check(ctx context.Context, jobID string) (*job.Update, error)
}

type statusService struct {
	results result.Store
}

// NewStatusService constructs a new StatusService.
func NewStatusService(results result.Store) StatusService {
	return &statusService{results: results}
}

func (s *statusService) Check(ctx context.Context, jobID string) (*job.Update, error) {
	u, found, err := s.results.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &job.Update{JobID: jobID, Status: job.StatusUnknown}, nil
	}
	return u, nil
}
