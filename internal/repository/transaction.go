package repository

import (
	"context"
	"errors"

	"finflow/internal/model"
)

// ErrAlreadyProcessed is returned by SaveBatch when the document's processed
// flag was already true. The caller treats it as a completed no-op, not a
// failure: it is how a redelivered job avoids inserting duplicate rows.
var ErrAlreadyProcessed = errors.New("document already processed")

// TransactionRepository defines data access for parsed transactions.
type TransactionRepository interface {
	// SaveBatch inserts every transaction and flips the referenced document's
	// processed flag, all inside one database transaction. Either every row
	// lands and the flag is raised, or nothing changes. If the flag was
	// already raised (a redelivered job, or a concurrent worker that won the
	// race) nothing is written and ErrAlreadyProcessed is returned.
	SaveBatch(ctx context.Context, documentID int64, txns []model.Transaction) (int, error)

	// ListByDocument returns the transactions parsed from one document,
	// paginated, with a total count.
	ListByDocument(ctx context.Context, documentID int64, pq PageQuery) (*PageResult[model.Transaction], error)
}
