package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendflow/internal/models"
)

var ErrSanctionNotFound = errors.New("sanction not found")

type OfferRepository struct {
	pool *pgxpool.Pool
}

func NewOfferRepository(pool *pgxpool.Pool) *OfferRepository {
	return &OfferRepository{pool: pool}
}

func (r *OfferRepository) ListActiveProducts(ctx context.Context) ([]models.LFIProduct, error) {
	const query = `
		SELECT id, lfi_name, min_rate, max_rate, max_amount, min_monthly_income,
		       max_tenure_months, foir, active, created_at
		FROM lfi_products
		WHERE active = TRUE
		ORDER BY min_rate ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.LFIProduct
	for rows.Next() {
		var p models.LFIProduct
		if err := rows.Scan(
			&p.ID,
			&p.LFIName,
			&p.MinRate,
			&p.MaxRate,
			&p.MaxAmount,
			&p.MinMonthlyIncome,
			&p.MaxTenureMonths,
			&p.FOIR,
			&p.Active,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

const sanctionColumns = `
	id, user_id, sales_manager_id, lfi_name, amount, interest_rate,
	tenure_months, status, letter_key, issued_at, created_at
`

func (r *OfferRepository) CreateSanction(ctx context.Context, sanction models.Sanction) error {
	const query = `
		INSERT INTO sanctions (
			id, user_id, sales_manager_id, lfi_name, amount, interest_rate,
			tenure_months, status, letter_key, issued_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		sanction.ID,
		sanction.UserID,
		sanction.SalesManagerID,
		sanction.LFIName,
		sanction.Amount,
		sanction.InterestRate,
		sanction.TenureMonths,
		sanction.Status,
		sanction.LetterKey,
		sanction.IssuedAt,
	)
	return err
}

func (r *OfferRepository) GetSanction(ctx context.Context, id string) (models.Sanction, error) {
	const query = `SELECT ` + sanctionColumns + ` FROM sanctions WHERE id = $1`
	return r.scanSanction(r.pool.QueryRow(ctx, query, id))
}

// LatestSanctionByUser backs the sanction-letter download: one letter per
// customer, the most recent issue wins.
func (r *OfferRepository) LatestSanctionByUser(ctx context.Context, userID string) (models.Sanction, error) {
	const query = `
		SELECT ` + sanctionColumns + `
		FROM sanctions
		WHERE user_id = $1
		ORDER BY issued_at DESC
		LIMIT 1
	`
	return r.scanSanction(r.pool.QueryRow(ctx, query, userID))
}

func (r *OfferRepository) ListSanctionsByUser(ctx context.Context, userID string) ([]models.Sanction, error) {
	const query = `
		SELECT ` + sanctionColumns + `
		FROM sanctions
		WHERE user_id = $1
		ORDER BY issued_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectSanctions(rows)
}

func (r *OfferRepository) ListSanctionsBySalesManager(ctx context.Context, salesManagerID string) ([]models.Sanction, error) {
	const query = `
		SELECT ` + sanctionColumns + `
		FROM sanctions
		WHERE sales_manager_id = $1
		ORDER BY issued_at DESC
	`
	rows, err := r.pool.Query(ctx, query, salesManagerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectSanctions(rows)
}

func (r *OfferRepository) SetLetterKey(ctx context.Context, id string, letterKey string) error {
	const query = `UPDATE sanctions SET letter_key = $2 WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, letterKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSanctionNotFound
	}
	return nil
}

func (r *OfferRepository) scanSanction(row pgx.Row) (models.Sanction, error) {
	var s models.Sanction
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.SalesManagerID,
		&s.LFIName,
		&s.Amount,
		&s.InterestRate,
		&s.TenureMonths,
		&s.Status,
		&s.LetterKey,
		&s.IssuedAt,
		&s.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Sanction{}, ErrSanctionNotFound
		}
		return models.Sanction{}, err
	}
	return s, nil
}

func (r *OfferRepository) collectSanctions(rows pgx.Rows) ([]models.Sanction, error) {
	var sanctions []models.Sanction
	for rows.Next() {
		var s models.Sanction
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.SalesManagerID,
			&s.LFIName,
			&s.Amount,
			&s.InterestRate,
			&s.TenureMonths,
			&s.Status,
			&s.LetterKey,
			&s.IssuedAt,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sanctions = append(sanctions, s)
	}
	return sanctions, rows.Err()
}
