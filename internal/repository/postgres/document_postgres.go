package postgres

import (
	"context"
	"database/sql"
	"time"

	"finflow/internal/model"
	"finflow/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (user_id, filename, storage_path, uploaded_at, processed)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, user_id, filename, storage_path, uploaded_at, processed
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.UserID,
		doc.Filename,
		doc.StoragePath,
		doc.UploadedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Filename,
		&out.StoragePath,
		&out.UploadedAt,
		&out.Processed,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, user_id, filename, storage_path, uploaded_at, processed
		FROM documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Filename,
		&d.StoragePath,
		&d.UploadedAt,
		&d.Processed,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, user_id, filename, storage_path, uploaded_at, processed
		FROM documents
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Filename,
			&d.StoragePath,
			&d.UploadedAt,
			&d.Processed,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// ListUnprocessedBefore returns unprocessed documents older than the cutoff,
// oldest first.
func (r *DocumentPostgres) ListUnprocessedBefore(ctx context.Context, cutoff time.Time, limit int) ([]model.Document, error) {
	const q = `
		SELECT id, user_id, filename, storage_path, uploaded_at, processed
		FROM documents
		WHERE processed = false AND uploaded_at < $1
		ORDER BY uploaded_at ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Filename,
			&d.StoragePath,
			&d.UploadedAt,
			&d.Processed,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
