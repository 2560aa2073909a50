package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendflow/internal/models"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

const leadColumns = `
	id, sales_manager_id, customer_id, name, mobile, email,
	loan_type, source, status, created_at, updated_at
`

func (r *LeadRepository) Create(ctx context.Context, lead models.Lead) error {
	const query = `
		INSERT INTO leads (
			id, sales_manager_id, customer_id, name, mobile, email,
			loan_type, source, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.SalesManagerID,
		lead.CustomerID,
		lead.Name,
		lead.Mobile,
		lead.Email,
		lead.LoanType,
		lead.Source,
		lead.Status,
	)
	return err
}

// ListBySalesManager pushes status filter, text search and pagination into SQL.
func (r *LeadRepository) ListBySalesManager(ctx context.Context, salesManagerID string, filter models.LeadFilter) ([]models.Lead, error) {
	const query = `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE sales_manager_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR mobile ILIKE '%' || $3 || '%' OR email ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, query, salesManagerID, filter.Status, filter.Query, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var lead models.Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.SalesManagerID,
			&lead.CustomerID,
			&lead.Name,
			&lead.Mobile,
			&lead.Email,
			&lead.LoanType,
			&lead.Source,
			&lead.Status,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (models.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var lead models.Lead
	if err := row.Scan(
		&lead.ID,
		&lead.SalesManagerID,
		&lead.CustomerID,
		&lead.Name,
		&lead.Mobile,
		&lead.Email,
		&lead.LoanType,
		&lead.Source,
		&lead.Status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Lead{}, ErrLeadNotFound
		}
		return models.Lead{}, err
	}
	return lead, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, salesManagerID string, status models.LeadStatus) error {
	const query = `
		UPDATE leads
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND sales_manager_id = $2
	`
	cmd, err := r.pool.Exec(ctx, query, id, salesManagerID, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}
