package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finflow/internal/model"
	"finflow/internal/repository"
	"finflow/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
)

// downloadExpiry bounds how long a presigned blob URL stays usable.
const downloadExpiry = 15 * time.Minute

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// TransactionListResult is the service-level DTO for a document's parsed
// transactions.
type TransactionListResult struct {
	Items []model.Transaction `json:"data"`
	Total int                 `json:"total"`
}

// DocumentService is the read surface over ingested documents. There is no
// delete: documents are never removed by this subsystem, and the worker is
// the only writer of the processed flag.
type DocumentService interface {
	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// DownloadURL returns a time-limited URL for fetching the stored
	// (still-encrypted) blob.
	DownloadURL(ctx context.Context, id int64) (string, error)

	// Transactions returns the transactions parsed from a document.
	Transactions(ctx context.Context, id int64, limit, offset int) (*TransactionListResult, error)
}

type documentService struct {
	store storage.Storage
	docs  repository.DocumentRepository
	txns  repository.TransactionRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, txns repository.TransactionRepository) DocumentService {
	return &documentService{store: store, docs: docs, txns: txns}
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	limit, offset = clampPage(limit, offset)

	res, err := s.docs.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// DownloadURL presigns a GET for the document's blob.
func (s *documentService) DownloadURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, downloadExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

// Transactions lists a document's parsed rows, verifying the document exists
// first so a missing ID is distinguishable from an empty result.
func (s *documentService) Transactions(ctx context.Context, id int64, limit, offset int) (*TransactionListResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	limit, offset = clampPage(limit, offset)

	res, err := s.txns.ListByDocument(ctx, id, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TransactionListResult{Items: res.Items, Total: res.Total}, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
