package result

import (
	"context"

	"finflow/internal/job"
)

// Package result is the ephemeral status/result channel keyed by job
// identifier. Entries expire; the durable trace of a completed job is the
// document's processed flag, not this store. Entries are eventually
// consistent with the relational store: a SUCCESS status is only ever
// published after the corresponding database commit.

type Store interface {
	// Publish records the latest status for a job, replacing any previous
	// entry and refreshing its expiry.
	Publish(ctx context.Context, u job.Update) error

	// Get returns the last published update for a job identifier. The second
	// return is false when the identifier was never issued or its entry has
	// expired; that is not an error.
	Get(ctx context.Context, jobID string) (*job.Update, bool, error)
}
