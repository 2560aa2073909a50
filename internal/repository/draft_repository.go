package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendflow/internal/models"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftRepository stores one row per customer; the nested detail objects go
// into jsonb columns so a partial draft round-trips exactly.
type DraftRepository struct {
	pool *pgxpool.Pool
}

func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

func (r *DraftRepository) Get(ctx context.Context, userID string) (models.LoanDraft, error) {
	const query = `
		SELECT user_id, personal_details, income_details, property_details, co_applicant,
		       loan_type, form_step, is_eligible, max_loan_amount, amount_range, selected_offer,
		       created_at, updated_at
		FROM loan_drafts
		WHERE user_id = $1
	`

	row := r.pool.QueryRow(ctx, query, userID)

	var (
		draft    models.LoanDraft
		personal []byte
		income   []byte
		property []byte
		coApp    []byte
		offer    []byte
	)
	if err := row.Scan(
		&draft.UserID,
		&personal,
		&income,
		&property,
		&coApp,
		&draft.LoanType,
		&draft.FormStep,
		&draft.IsEligible,
		&draft.MaxLoanAmount,
		&draft.AmountRange,
		&offer,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LoanDraft{}, ErrDraftNotFound
		}
		return models.LoanDraft{}, err
	}

	if err := decodeInto(personal, &draft.PersonalDetails); err != nil {
		return models.LoanDraft{}, err
	}
	if err := decodeInto(income, &draft.IncomeDetails); err != nil {
		return models.LoanDraft{}, err
	}
	if err := decodeInto(property, &draft.PropertyDetails); err != nil {
		return models.LoanDraft{}, err
	}
	if err := decodeInto(coApp, &draft.CoApplicant); err != nil {
		return models.LoanDraft{}, err
	}
	if err := decodeInto(offer, &draft.SelectedOffer); err != nil {
		return models.LoanDraft{}, err
	}
	return draft, nil
}

func (r *DraftRepository) Put(ctx context.Context, draft models.LoanDraft) error {
	const query = `
		INSERT INTO loan_drafts (
			user_id, personal_details, income_details, property_details, co_applicant,
			loan_type, form_step, is_eligible, max_loan_amount, amount_range, selected_offer,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
		ON CONFLICT (user_id)
		DO UPDATE SET
			personal_details = EXCLUDED.personal_details,
			income_details = EXCLUDED.income_details,
			property_details = EXCLUDED.property_details,
			co_applicant = EXCLUDED.co_applicant,
			loan_type = EXCLUDED.loan_type,
			form_step = EXCLUDED.form_step,
			is_eligible = EXCLUDED.is_eligible,
			max_loan_amount = EXCLUDED.max_loan_amount,
			amount_range = EXCLUDED.amount_range,
			selected_offer = EXCLUDED.selected_offer,
			updated_at = NOW()
	`

	personal, err := encodeNullable(draft.PersonalDetails)
	if err != nil {
		return err
	}
	income, err := encodeNullable(draft.IncomeDetails)
	if err != nil {
		return err
	}
	property, err := encodeNullable(draft.PropertyDetails)
	if err != nil {
		return err
	}
	coApp, err := encodeNullable(draft.CoApplicant)
	if err != nil {
		return err
	}
	offer, err := encodeNullable(draft.SelectedOffer)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		draft.UserID,
		personal,
		income,
		property,
		coApp,
		draft.LoanType,
		draft.FormStep,
		draft.IsEligible,
		draft.MaxLoanAmount,
		draft.AmountRange,
		offer,
	)
	return err
}

func (r *DraftRepository) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM loan_drafts WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func encodeNullable(v any) ([]byte, error) {
	if isNilPointer(v) {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode draft field: %w", err)
	}
	return data, nil
}

func decodeInto[T any](data []byte, out **T) error {
	if len(data) == 0 {
		*out = nil
		return nil
	}
	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("decode draft field: %w", err)
	}
	*out = value
	return nil
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *models.PersonalDetails:
		return p == nil
	case *models.IncomeDetails:
		return p == nil
	case *models.PropertyDetails:
		return p == nil
	case *models.CoApplicant:
		return p == nil
	case *models.SelectedOffer:
		return p == nil
	default:
		return v == nil
	}
}
