// Package worker executes ingestion jobs: it pulls job descriptors from the
// queue and runs each one through the fetch -> decrypt -> parse -> persist
// state machine, publishing the outcome on the result channel.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"finflow/internal/crypto"
	"finflow/internal/job"
	"finflow/internal/model"
	"finflow/internal/parser"
	"finflow/internal/repository"
	"finflow/internal/result"
	"finflow/internal/storage"
)

// failure carries a typed reason out of a pipeline state. Expected failures
// are values inspected by Process, never panics or sentinel control flow.
type failure struct {
	kind job.FailureKind
	err  error
}

// Pipeline runs one job at a time to completion. All collaborators are
// injected so tests can substitute fakes; the pipeline holds no global state
// and is safe for concurrent use by multiple workers, each on its own job.
type Pipeline struct {
	store   storage.Storage
	decrypt crypto.Decryptor
	docs    repository.DocumentRepository
	txns    repository.TransactionRepository
	results result.Store
	logger  *slog.Logger
	metrics *Metrics
}

// NewPipeline constructs a Pipeline. metrics may be nil.
func NewPipeline(
	store storage.Storage,
	decrypt crypto.Decryptor,
	docs repository.DocumentRepository,
	txns repository.TransactionRepository,
	results result.Store,
	logger *slog.Logger,
	metrics *Metrics,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		store:   store,
		decrypt: decrypt,
		docs:    docs,
		txns:    txns,
		results: results,
		logger:  logger,
		metrics: metrics,
	}
}

// Process executes one job to either SUCCESS or FAILURE and returns the terminal
// update that was published. Per-job errors never escape: every expected
// failure becomes a FAILURE status on the result channel. Once started, a job
// runs to a terminal state; there is no mid-pipeline cancellation.
func (p *Pipeline) Process(ctx context.Context, j job.Job) job.Update {
	start := time.Now()
	p.publish(ctx, job.Update{JobID: j.ID, Status: job.StatusStarted})

	u := p.run(ctx, j)
	p.publish(ctx, u)
	p.metrics.observe(u, time.Since(start))

	if u.Status == job.StatusFailure {
		p.logger.Warn("job failed",
			"job_id", j.ID, "document_id", j.DocumentID,
			"error_kind", string(u.ErrorKind), "error", u.Error)
	} else {
		p.logger.Info("job done",
			"job_id", j.ID, "document_id", j.DocumentID,
			"transactions_inserted", u.Result.TransactionsInserted,
			"duration_ms", time.Since(start).Milliseconds())
	}
	return u
}

func (p *Pipeline) run(ctx context.Context, j job.Job) job.Update {
	doc, f := p.loadDocument(ctx, j)
	if f != nil {
		return failed(j, f)
	}
	// Redelivery of a completed job: every transaction row is already
	// committed, so report success without touching blob or database again.
	if doc.Processed {
		return succeeded(j, 0)
	}

	ciphertext, f := p.fetch(ctx, j)
	if f != nil {
		return failed(j, f)
	}

	// Decryption is pure and idempotent, and is invoked exactly once per
	// job: decrypting its own output again would corrupt the plaintext.
	plaintext, err := p.decrypt.Decrypt(ciphertext, j.Key)
	if err != nil {
		return failed(j, &failure{kind: job.KindDecryption, err: err})
	}

	txns, err := parser.ParseStatement(plaintext, doc.UserID, doc.ID)
	if err != nil {
		return failed(j, &failure{kind: job.KindParse, err: err})
	}

	inserted, err := p.txns.SaveBatch(ctx, doc.ID, txns)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyProcessed) {
			// A concurrent or redelivered execution committed first; its
			// rows are the canonical ones.
			return succeeded(j, 0)
		}
		return failed(j, &failure{kind: job.KindPersistence, err: err})
	}

	return succeeded(j, inserted)
}

func (p *Pipeline) loadDocument(ctx context.Context, j job.Job) (*model.Document, *failure) {
	doc, err := p.docs.FindByID(ctx, j.DocumentID)
	if err != nil {
		return nil, &failure{kind: job.KindPersistence, err: fmt.Errorf("load document %d: %w", j.DocumentID, err)}
	}
	return doc, nil
}

func (p *Pipeline) fetch(ctx context.Context, j job.Job) ([]byte, *failure) {
	rc, _, err := p.store.Get(ctx, j.StoragePath)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, &failure{kind: job.KindNotFound, err: fmt.Errorf("blob %s does not exist", j.StoragePath)}
		}
		return nil, &failure{kind: job.KindStorage, err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &failure{kind: job.KindStorage, err: fmt.Errorf("read blob %s: %w", j.StoragePath, err)}
	}
	return data, nil
}

// publish writes a status update; a result-channel outage must not kill the
// job, so errors are only logged.
func (p *Pipeline) publish(ctx context.Context, u job.Update) {
	if err := p.results.Publish(ctx, u); err != nil {
		p.logger.Warn("failed to publish status", "job_id", u.JobID, "status", string(u.Status), "error", err)
	}
}

func succeeded(j job.Job, inserted int) job.Update {
	return job.Update{
		JobID:  j.ID,
		Status: job.StatusSuccess,
		Result: &job.Result{
			DocumentID:           j.DocumentID,
			TransactionsInserted: inserted,
		},
	}
}

func failed(j job.Job, f *failure) job.Update {
	return job.Update{
		JobID:     j.ID,
		Status:    job.StatusFailure,
		ErrorKind: f.kind,
		Error:     f.err.Error(),
	}
}
