package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"finflow/internal/job"
)

// Metrics holds the worker pipeline's prometheus instruments.
type Metrics struct {
	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
}

// NewMetrics creates and registers the pipeline metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_jobs_total",
				Help: "Total number of ingestion jobs processed, by terminal status.",
			},
			[]string{"status", "error_kind"},
		),
		jobDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ingest_job_duration_seconds",
				Help:    "Wall time spent processing one ingestion job.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	if err := reg.Register(m.jobsTotal); err != nil {
		return nil, err
	}
	if err := reg.Register(m.jobDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(u job.Update, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(string(u.Status), string(u.ErrorKind)).Inc()
	m.jobDuration.Observe(elapsed.Seconds())
}
