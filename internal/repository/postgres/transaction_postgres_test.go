package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"finflow/internal/model"
	"finflow/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTxns(docID int64) []model.Transaction {
	return []model.Transaction{
		{
			UserID:      1,
			DocumentID:  &docID,
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-42.50"),
			Currency:    "USD",
			Description: "Netflix",
			Category:    "Uncategorized",
		},
		{
			UserID:      1,
			DocumentID:  &docID,
			Date:        time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("1200.00"),
			Currency:    "USD",
			Description: "Paycheck",
			Category:    "Uncategorized",
		},
	}
}

func TestTransactionPostgres_SaveBatch(t *testing.T) {
	ctx := context.Background()
	const docID = int64(42)

	t.Run("commits inserts and processed flag together", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		txns := sampleTxns(docID)

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO transactions")
		for range txns {
			mock.ExpectExec("INSERT INTO transactions").
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectExec("UPDATE documents SET processed = true").
			WithArgs(docID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		inserted, err := NewTransactionPostgres(db).SaveBatch(ctx, docID, txns)

		assert.NoError(t, err)
		assert.Equal(t, 2, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already processed rolls back without duplicates", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		txns := sampleTxns(docID)

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO transactions")
		for range txns {
			mock.ExpectExec("INSERT INTO transactions").
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		// Guarded update touches zero rows: some earlier execution won.
		mock.ExpectExec("UPDATE documents SET processed = true").
			WithArgs(docID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		inserted, err := NewTransactionPostgres(db).SaveBatch(ctx, docID, txns)

		assert.True(t, errors.Is(err, repository.ErrAlreadyProcessed))
		assert.Zero(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back everything", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		txns := sampleTxns(docID)

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO transactions")
		mock.ExpectExec("INSERT INTO transactions").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO transactions").
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		inserted, err := NewTransactionPostgres(db).SaveBatch(ctx, docID, txns)

		assert.Error(t, err)
		assert.Zero(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch still marks processed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectPrepare("INSERT INTO transactions")
		mock.ExpectExec("UPDATE documents SET processed = true").
			WithArgs(docID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		inserted, err := NewTransactionPostgres(db).SaveBatch(ctx, docID, nil)

		assert.NoError(t, err)
		assert.Zero(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionPostgres_ListByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	const docID = int64(42)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM transactions").
		WithArgs(docID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "user_id", "vendor_id", "document_id", "tx_date", "amount", "currency", "description", "category"}).
		AddRow(int64(1), int64(1), nil, docID, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "-42.50", "USD", "Netflix", "Uncategorized").
		AddRow(int64(2), int64(1), nil, docID, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), "1200.00", "USD", "Paycheck", "Uncategorized")

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE document_id = ?").
		WithArgs(docID, 10, 0).
		WillReturnRows(rows)

	res, err := NewTransactionPostgres(db).ListByDocument(ctx, docID, repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Items[0].Amount.Equal(decimal.RequireFromString("-42.50")))
	assert.Nil(t, res.Items[0].VendorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
