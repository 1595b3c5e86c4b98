package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"finflow/internal/model"
	"finflow/internal/repository"
)

// TransactionPostgres is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionPostgres struct {
	db *sql.DB
}

// NewTransactionPostgres creates a new TransactionPostgres repository.
func NewTransactionPostgres(db *sql.DB) *TransactionPostgres {
	return &TransactionPostgres{db: db}
}

var _ repository.TransactionRepository = (*TransactionPostgres)(nil)

// SaveBatch bulk-inserts the parsed transactions and raises the document's
// processed flag inside a single database transaction. The UPDATE is guarded
// on processed=false: if it touches zero rows some other execution of the
// same job already committed, so the whole transaction rolls back and
// repository.ErrAlreadyProcessed is returned.
func (r *TransactionPostgres) SaveBatch(ctx context.Context, documentID int64, txns []model.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	// Rollback is a no-op after a successful commit.
	defer tx.Rollback()

	const qInsert = `
		INSERT INTO transactions (user_id, vendor_id, document_id, tx_date, amount, currency, description, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	stmt, err := tx.PrepareContext(ctx, qInsert)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx,
			t.UserID,
			t.VendorID,
			t.DocumentID,
			t.Date,
			t.Amount,
			t.Currency,
			t.Description,
			t.Category,
		); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
	}

	const qMark = `UPDATE documents SET processed = true WHERE id = $1 AND processed = false`
	res, err := tx.ExecContext(ctx, qMark, documentID)
	if err != nil {
		return 0, fmt.Errorf("mark processed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark processed: %w", err)
	}
	if affected == 0 {
		return 0, repository.ErrAlreadyProcessed
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(txns), nil
}

// ListByDocument returns the transactions parsed from one document.
func (r *TransactionPostgres) ListByDocument(ctx context.Context, documentID int64, pq repository.PageQuery) (*repository.PageResult[model.Transaction], error) {
	const qCount = `SELECT COUNT(*) FROM transactions WHERE document_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, documentID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, user_id, vendor_id, document_id, tx_date, amount, currency, description, category
		FROM transactions
		WHERE document_id = $1
		ORDER BY tx_date ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, documentID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.VendorID,
			&t.DocumentID,
			&t.Date,
			&t.Amount,
			&t.Currency,
			&t.Description,
			&t.Category,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Transaction]{
		Items: items,
		Total: total,
	}, nil
}
