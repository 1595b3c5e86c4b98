package repository

import (
	"context"
	"time"

	"finflow/internal/model"
)

// DocumentRepository defines data access for documents. There is no delete:
// documents are never removed by this subsystem, and the processed flag is
// only ever raised through TransactionRepository.SaveBatch so the flip stays
// atomic with the inserted rows.
type DocumentRepository interface {
	// Create inserts a new document row with processed=false and returns the
	// stored record including its database-assigned identifier.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID. A missing row surfaces as
	// sql.ErrNoRows.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns a paginated list of documents newest-first and the total
	// row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// ListUnprocessedBefore returns up to limit unprocessed documents
	// uploaded before the cutoff, oldest first. Used by the reconciliation
	// sweep to spot uploads that never produced a completed job.
	ListUnprocessedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Document, error)
}
