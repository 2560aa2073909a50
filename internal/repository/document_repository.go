package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendflow/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const documentColumns = `
	id, owner_id, project_id, name, content_type, bucket, object_key,
	size_bytes, state, signature, confirmed_at, created_at, updated_at
`

func (r *DocumentRepository) Create(ctx context.Context, doc models.Document) error {
	const query = `
		INSERT INTO documents (
			id, owner_id, project_id, name, content_type, bucket, object_key,
			size_bytes, state, signature, created_at, updated_at
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.ProjectID,
		doc.Name,
		doc.ContentType,
		doc.Bucket,
		doc.ObjectKey,
		doc.SizeBytes,
		doc.State,
		doc.Signature,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (models.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *DocumentRepository) SetState(ctx context.Context, id string, state models.DocumentState, sizeBytes int64) error {
	const query = `
		UPDATE documents
		SET state = $2,
		    size_bytes = $3,
		    confirmed_at = CASE WHEN $2 = 'confirmed' THEN NOW() ELSE confirmed_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, state, sizeBytes)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// ListUnconfirmedBefore returns url_requested rows old enough for the sweep.
func (r *DocumentRepository) ListUnconfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Document, error) {
	const query = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE state = 'url_requested' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	const query = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *DocumentRepository) scanOne(row pgx.Row) (models.Document, error) {
	var (
		doc       models.Document
		projectID *string
	)
	if err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&projectID,
		&doc.Name,
		&doc.ContentType,
		&doc.Bucket,
		&doc.ObjectKey,
		&doc.SizeBytes,
		&doc.State,
		&doc.Signature,
		&doc.ConfirmedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Document{}, ErrDocumentNotFound
		}
		return models.Document{}, err
	}
	if projectID != nil {
		doc.ProjectID = *projectID
	}
	return doc, nil
}

func (r *DocumentRepository) collect(rows pgx.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		var (
			doc       models.Document
			projectID *string
		)
		if err := rows.Scan(
			&doc.ID,
			&doc.OwnerID,
			&projectID,
			&doc.Name,
			&doc.ContentType,
			&doc.Bucket,
			&doc.ObjectKey,
			&doc.SizeBytes,
			&doc.State,
			&doc.Signature,
			&doc.ConfirmedAt,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if projectID != nil {
			doc.ProjectID = *projectID
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
