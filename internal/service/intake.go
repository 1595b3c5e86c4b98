package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"finflow/internal/job"
	"finflow/internal/model"
	"finflow/internal/queue"
	"finflow/internal/repository"
	"finflow/internal/result"
	"finflow/internal/storage"
)

// Intake error taxonomy. Handlers map these onto 5xx responses; the wrapped
// cause rides along for logs.
var (
	ErrReaderNil   = errors.New("reader is nil")
	ErrKeyRequired = errors.New("decryption key is required")
	ErrStorage     = errors.New("blob storage error")
	ErrPersistence = errors.New("persistence error")
	ErrDispatch    = errors.New("dispatch error")
)

// SubmitResult is returned to the uploader. StatusURL is where the job can be
// polled; the document row and job are already durable when it is returned.
type SubmitResult struct {
	JobID      string `json:"job_id"`
	DocumentID int64  `json:"document_id"`
	StatusURL  string `json:"status_check_url"`
}

// IntakeService accepts an encrypted document stream and dispatches an
// ingestion job. It never decrypts inline; the upload call returns as soon as
// the job is on the queue.
type IntakeService interface {
	// Submit stores the raw (still-encrypted) bytes, creates the document
	// row, and enqueues a job carrying the key material.
	// - originalFilename is used only for display and to keep the extension.
	// - userID of 0 falls back to the default ingestion user.
	Submit(ctx context.Context, r io.Reader, originalFilename, key string, userID, size int64) (*SubmitResult, error)
}

type intakeService struct {
	store   storage.Storage
	docs    repository.DocumentRepository
	queue   queue.Queue
	results result.Store
	logger  *slog.Logger
}

// NewIntakeService constructs a new IntakeService.
func NewIntakeService(store storage.Storage, docs repository.DocumentRepository, q queue.Queue, results result.Store, logger *slog.Logger) IntakeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &intakeService{store: store, docs: docs, queue: q, results: results, logger: logger}
}

// Submit performs three sequential steps, each with its own failure mode:
// blob write (ErrStorage, nothing to clean up), document insert
// (ErrPersistence, blob removed as compensation), job enqueue (ErrDispatch,
// blob and row deliberately left in place — see the reconciliation sweep).
func (s *intakeService) Submit(ctx context.Context, r io.Reader, originalFilename, key string, userID, size int64) (*SubmitResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if key == "" {
		return nil, ErrKeyRequired
	}
	if userID <= 0 {
		userID = model.DefaultUserID
	}

	// Step 1: write the ciphertext to the blob area under a fresh name.
	ext := filepath.Ext(originalFilename)
	blobKey := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	if _, err := s.store.Put(ctx, blobKey, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: "application/octet-stream",
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Step 2: insert the document row. On failure the blob written above is
	// removed so no orphan blob remains.
	doc := &model.Document{
		UserID:      userID,
		Filename:    originalFilename,
		StoragePath: blobKey,
		UploadedAt:  time.Now().UTC(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, blobKey); delErr != nil {
			return nil, fmt.Errorf("%w: %v; rollback delete failed: %v", ErrPersistence, err, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Step 3: enqueue the job. The PENDING entry goes out first so a poll
	// racing the enqueue never sees "unknown" for an issued identifier.
	j := job.Job{
		ID:          job.NewID(),
		DocumentID:  stored.ID,
		StoragePath: blobKey,
		Key:         key,
		EnqueuedAt:  time.Now().UTC(),
	}
	if err := s.results.Publish(ctx, job.Update{JobID: j.ID, Status: job.StatusPending}); err != nil {
		s.logger.Warn("failed to publish pending status", "job_id", j.ID, "error", err)
	}
	if err := s.queue.Enqueue(ctx, j); err != nil {
		// The blob and document row stay behind: cleaning them up here could
		// race a queue that actually accepted the job. The reconciliation
		// sweep reports these orphans.
		s.logger.Warn("job dispatch failed, document left unprocessed",
			"document_id", stored.ID, "storage_path", blobKey, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDispatch, err)
	}

	return &SubmitResult{
		JobID:      j.ID,
		DocumentID: stored.ID,
		StatusURL:  "/jobs/" + j.ID,
	}, nil
}
