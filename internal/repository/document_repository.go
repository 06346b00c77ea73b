package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veritest/veritest-backend/internal/model"
)

// DocumentRepository handles uploaded-document metadata.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const documentColumns = `id, user_id, doc_type, object_key, file_name, content_type, size_bytes, status, created_at`

// Create inserts metadata for a freshly uploaded document.
func (r *DocumentRepository) Create(ctx context.Context, d *model.Document) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO documents (user_id, doc_type, object_key, file_name, content_type, size_bytes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		d.UserID, d.DocType, d.ObjectKey, d.FileName, d.ContentType, d.SizeBytes, d.Status,
	).Scan(&d.ID, &d.CreatedAt)
}

// GetByID retrieves a document record by primary key.
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	d := &model.Document{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id,
	).Scan(&d.ID, &d.UserID, &d.DocType, &d.ObjectKey, &d.FileName,
		&d.ContentType, &d.SizeBytes, &d.Status, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListByUser retrieves a user's documents, newest first.
func (r *DocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+`
		 FROM documents
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocType, &d.ObjectKey, &d.FileName,
			&d.ContentType, &d.SizeBytes, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ListAll retrieves every document with owner info, newest first.
func (r *DocumentRepository) ListAll(ctx context.Context) ([]model.DocumentWithUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.user_id, d.doc_type, d.object_key, d.file_name, d.content_type,
		        d.size_bytes, d.status, d.created_at, u.name, u.email
		 FROM documents d
		 JOIN users u ON d.user_id = u.id
		 ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.DocumentWithUser
	for rows.Next() {
		var d model.DocumentWithUser
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocType, &d.ObjectKey, &d.FileName,
			&d.ContentType, &d.SizeBytes, &d.Status, &d.CreatedAt,
			&d.UserName, &d.UserEmail); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateStatus records the admin review decision.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.DocumentStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a document record.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
