package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"lendflow/internal/ids"
	"lendflow/internal/models"
)

// Self-employed applicants are assessed on a fraction of declared turnover.
const selfEmployedMargin = 0.15

type ProductStore interface {
	ListActiveProducts(ctx context.Context) ([]models.LFIProduct, error)
	CreateSanction(ctx context.Context, sanction models.Sanction) error
	LatestSanctionByUser(ctx context.Context, userID string) (models.Sanction, error)
	ListSanctionsByUser(ctx context.Context, userID string) ([]models.Sanction, error)
	ListSanctionsBySalesManager(ctx context.Context, salesManagerID string) ([]models.Sanction, error)
}

// TaskEnqueuer pushes background work onto the redis task stream.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, values map[string]any) error
}

type OfferService struct {
	products ProductStore
	drafts   *DraftService
	queue    TaskEnqueuer
	log      zerolog.Logger
}

func NewOfferService(products ProductStore, drafts *DraftService, queue TaskEnqueuer, log zerolog.Logger) *OfferService {
	return &OfferService{
		products: products,
		drafts:   drafts,
		queue:    queue,
		log:      log,
	}
}

type OfferResult struct {
	IsEligible    bool
	MaxLoanAmount float64
	AmountRange   string
	Offers        []models.LoanOffer
}

// Calculate runs the draft against every active lender product and records
// the eligibility outcome on the draft. An incomplete draft yields a
// not-eligible result, not an error.
func (s *OfferService) Calculate(ctx context.Context, userID string) (OfferResult, error) {
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		return OfferResult{}, err
	}

	income, obligations := assessableIncome(draft)
	var offers []models.LoanOffer

	if income > 0 {
		products, err := s.products.ListActiveProducts(ctx)
		if err != nil {
			return OfferResult{}, err
		}
		for _, product := range products {
			offer, ok := buildOffer(product, income, obligations)
			if ok {
				offers = append(offers, offer)
			}
		}
	}

	result := OfferResult{
		IsEligible: len(offers) > 0,
		Offers:     offers,
	}
	for _, offer := range offers {
		if offer.Amount > result.MaxLoanAmount {
			result.MaxLoanAmount = offer.Amount
		}
	}
	if result.IsEligible {
		result.AmountRange = FormatAmountRange(result.MaxLoanAmount*0.8, result.MaxLoanAmount)
	}

	if _, err := s.drafts.SetEligibility(ctx, userID, result.IsEligible, result.MaxLoanAmount, result.AmountRange); err != nil {
		return OfferResult{}, err
	}
	return result, nil
}

func assessableIncome(draft models.LoanDraft) (income float64, obligations float64) {
	in := draft.IncomeDetails
	if in == nil {
		return 0, 0
	}

	switch in.EmploymentType {
	case models.EmploymentSalaried:
		income = in.MonthlyIncome
	case models.EmploymentSelfEmployed:
		income = in.AnnualTurnover * selfEmployedMargin / 12
	}
	obligations = in.MonthlyEMIs

	if co := draft.CoApplicant; co != nil {
		income += co.MonthlyIncome
	}
	return income, obligations
}

func buildOffer(product models.LFIProduct, income, obligations float64) (models.LoanOffer, bool) {
	if income < product.MinMonthlyIncome {
		return models.LoanOffer{}, false
	}

	emiCapacity := income*product.FOIR - obligations
	if emiCapacity <= 0 {
		return models.LoanOffer{}, false
	}

	// Standard annuity: amount = EMI * (1 - (1+r)^-n) / r at the product's
	// best rate over its longest tenure.
	r := product.MinRate / 100 / 12
	n := float64(product.MaxTenureMonths)
	factor := (1 - math.Pow(1+r, -n)) / r

	amount := emiCapacity * factor
	if amount > product.MaxAmount {
		amount = product.MaxAmount
	}
	amount = math.Floor(amount)
	if amount <= 0 {
		return models.LoanOffer{}, false
	}

	emi := amount / factor

	return models.LoanOffer{
		ProductID:    product.ID,
		LFIName:      product.LFIName,
		InterestRate: product.MinRate,
		Amount:       amount,
		TenureMonths: product.MaxTenureMonths,
		EMI:          math.Ceil(emi),
	}, true
}

// FormatAmountRange renders rupee amounts in lakh/crore units, e.g.
// "₹36.0L - ₹45.0L".
func FormatAmountRange(low, high float64) string {
	return fmt.Sprintf("%s - %s", FormatINR(low), FormatINR(high))
}

func FormatINR(amount float64) string {
	switch {
	case amount >= 1e7:
		return fmt.Sprintf("₹%.2fCr", amount/1e7)
	case amount >= 1e5:
		return fmt.Sprintf("₹%.1fL", amount/1e5)
	default:
		return fmt.Sprintf("₹%.0f", amount)
	}
}

type SanctionInput struct {
	UserID         string
	SalesManagerID string
	LFIName        string
	Amount         float64
	InterestRate   float64
	TenureMonths   int
}

// CreateSanction records an approved offer and queues letter generation for
// the worker.
func (s *OfferService) CreateSanction(ctx context.Context, input SanctionInput) (models.Sanction, error) {
	sanction := models.Sanction{
		ID:             ids.New(),
		UserID:         input.UserID,
		SalesManagerID: input.SalesManagerID,
		LFIName:        input.LFIName,
		Amount:         input.Amount,
		InterestRate:   input.InterestRate,
		TenureMonths:   input.TenureMonths,
		Status:         models.SanctionStatusIssued,
		IssuedAt:       time.Now().UTC(),
	}

	if err := s.products.CreateSanction(ctx, sanction); err != nil {
		return models.Sanction{}, err
	}

	if s.queue != nil {
		err := s.queue.Enqueue(ctx, map[string]any{
			"type":       "sanction_letter",
			"sanctionId": sanction.ID,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("sanction_id", sanction.ID).Msg("enqueue sanction letter failed")
		}
	}
	return sanction, nil
}

func (s *OfferService) SanctionsByUser(ctx context.Context, userID string) ([]models.Sanction, error) {
	return s.products.ListSanctionsByUser(ctx, userID)
}

func (s *OfferService) SanctionsBySalesManager(ctx context.Context, salesManagerID string) ([]models.Sanction, error) {
	return s.products.ListSanctionsBySalesManager(ctx, salesManagerID)
}

func (s *OfferService) LatestSanction(ctx context.Context, userID string) (models.Sanction, error) {
	return s.products.LatestSanctionByUser(ctx, userID)
}
