// Package reconcile periodically looks for documents that were accepted but
// never reached a terminal processing state, typically because the enqueue
// step failed after the blob and row were already durable. The sweeper only
// detects and reports; it never re-enqueues or mutates anything, so an
// operator decides how to resubmit.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"finflow/internal/repository"
)

const sweepLimit = 500

// Sweeper scans for unprocessed documents older than a minimum age.
type Sweeper struct {
	docs     repository.DocumentRepository
	interval time.Duration
	minAge   time.Duration
	logger   *slog.Logger
	orphans  prometheus.Gauge
}

// NewSweeper constructs a Sweeper and registers its gauge. minAge keeps
// documents that are simply still in flight out of the report.
func NewSweeper(docs repository.DocumentRepository, interval, minAge time.Duration, logger *slog.Logger, reg prometheus.Registerer) (*Sweeper, error) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if minAge <= 0 {
		minAge = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	orphans := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ingest_unprocessed_documents",
		Help: "Documents past the minimum age that never reached a terminal processing state.",
	})
	if reg != nil {
		if err := reg.Register(orphans); err != nil {
			return nil, err
		}
	}

	return &Sweeper{
		docs:     docs,
		interval: interval,
		minAge:   minAge,
		logger:   logger,
		orphans:  orphans,
	}, nil
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single scan and returns the number of stuck documents
// found.
func (s *Sweeper) Sweep(ctx context.Context) int {
	cutoff := time.Now().Add(-s.minAge)
	docs, err := s.docs.ListUnprocessedBefore(ctx, cutoff, sweepLimit)
	if err != nil {
		s.logger.Error("reconcile sweep failed", "error", err)
		return 0
	}

	s.orphans.Set(float64(len(docs)))
	for _, d := range docs {
		s.logger.Warn("document stuck without terminal state",
			"document_id", d.ID,
			"filename", d.Filename,
			"storage_path", d.StoragePath,
			"uploaded_at", d.UploadedAt.Format(time.RFC3339),
		)
	}
	if len(docs) > 0 {
		s.logger.Info("reconcile sweep complete", "stuck_documents", len(docs))
	}
	return len(docs)
}
