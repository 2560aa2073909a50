package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lendflow/internal/models"
	"lendflow/internal/prefill"
	"lendflow/internal/repository"
)

// DraftStore is the durable side of the draft; the redis copy is only a
// read-through projection of it. Implementations report a missing draft with
// repository.ErrDraftNotFound.
type DraftStore interface {
	Get(ctx context.Context, userID string) (models.LoanDraft, error)
	Put(ctx context.Context, draft models.LoanDraft) error
	Delete(ctx context.Context, userID string) error
}

// DraftService owns the four-step wizard state machine. Every mutation loads
// the draft, applies the change, and writes it back to both the store and the
// cache before returning (write-through).
type DraftService struct {
	store    DraftStore
	cache    *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
}

func NewDraftService(store DraftStore, cache *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *DraftService {
	return &DraftService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func DraftCacheKey(userID string) string {
	return "draft:" + userID
}

// Get returns the customer's draft, or the default draft when none exists yet.
func (s *DraftService) Get(ctx context.Context, userID string) (models.LoanDraft, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, DraftCacheKey(userID)).Bytes()
		if err == nil {
			var draft models.LoanDraft
			if err := json.Unmarshal(data, &draft); err == nil {
				return draft, nil
			}
			s.log.Warn().Str("user_id", userID).Msg("cached draft unreadable, falling back to store")
		}
	}

	draft, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return models.NewLoanDraft(userID), nil
		}
		return models.LoanDraft{}, err
	}
	return draft, nil
}

func (s *DraftService) SavePersonalDetails(ctx context.Context, userID string, details models.PersonalDetails, advanceStep bool) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.PersonalDetails = &details
	if advanceStep {
		draft.FormStep = models.StepIncome
	}
	return draft, s.persist(ctx, draft)
}

func (s *DraftService) SaveIncomeDetails(ctx context.Context, userID string, details models.IncomeDetails) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.IncomeDetails = &details
	draft.FormStep = models.StepProperty
	return draft, s.persist(ctx, draft)
}

func (s *DraftService) SavePropertyDetails(ctx context.Context, userID string, details models.PropertyDetails) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.PropertyDetails = &details
	draft.FormStep = models.StepFinal
	return draft, s.persist(ctx, draft)
}

func (s *DraftService) SaveCoApplicant(ctx context.Context, userID string, coApplicant models.CoApplicant) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.CoApplicant = &coApplicant
	return draft, s.persist(ctx, draft)
}

func (s *DraftService) SaveLoanType(ctx context.Context, userID string, loanType string) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.LoanType = loanType
	return draft, s.persist(ctx, draft)
}

func (s *DraftService) SelectOffer(ctx context.Context, userID string, offer models.SelectedOffer) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.SelectedOffer = &offer
	return draft, s.persist(ctx, draft)
}

// ClearCurrentStep rolls the wizard back one step. Steps 2 and 3 also drop the
// data entered on the step being left; step 4 does not drop anything. The
// step-4 asymmetry matches the shipped product behavior and is kept until
// product says otherwise.
func (s *DraftService) ClearCurrentStep(ctx context.Context, userID string) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	switch draft.FormStep {
	case models.StepIncome:
		draft.IncomeDetails = nil
		draft.FormStep = models.StepPersonal
	case models.StepProperty:
		draft.PropertyDetails = nil
		draft.FormStep = models.StepIncome
	case models.StepFinal:
		draft.FormStep = models.StepProperty
	default:
		return draft, nil
	}
	return draft, s.persist(ctx, draft)
}

// GoToPreviousStep decrements the step without touching any data.
func (s *DraftService) GoToPreviousStep(ctx context.Context, userID string) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	if draft.FormStep > models.StepPersonal {
		draft.FormStep--
		return draft, s.persist(ctx, draft)
	}
	return draft, nil
}

// Reset drops the stored draft entirely; the next Get sees the defaults.
func (s *DraftService) Reset(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}
	return s.InvalidateDraftCache(ctx, userID)
}

// SetEligibility records the outcome of an offer calculation on the draft.
// Step 4 submission does not move the step counter.
func (s *DraftService) SetEligibility(ctx context.Context, userID string, eligible bool, maxAmount float64, amountRange string) (models.LoanDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return models.LoanDraft{}, err
	}

	draft.IsEligible = eligible
	draft.MaxLoanAmount = maxAmount
	draft.AmountRange = amountRange
	return draft, s.persist(ctx, draft)
}

// Prefill replaces the stored draft with an externally supplied snake_case
// snapshot, mapped through the prefill adapter.
func (s *DraftService) Prefill(ctx context.Context, userID string, raw prefill.RawDraft) (models.LoanDraft, error) {
	draft := prefill.ToDraft(raw)
	draft.UserID = userID
	return draft, s.persist(ctx, draft)
}

// Snapshot serves the draft in its snake_case wire shape for privileged
// consumers.
func (s *DraftService) Snapshot(ctx context.Context, userID string) (prefill.RawDraft, error) {
	draft, err := s.Get(ctx, userID)
	if err != nil {
		return prefill.RawDraft{}, err
	}
	return prefill.FromDraft(draft), nil
}

// InvalidateDraftCache removes the cached copy only; the stored draft stays.
func (s *DraftService) InvalidateDraftCache(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, DraftCacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate draft cache: %w", err)
	}
	return nil
}

func (s *DraftService) persist(ctx context.Context, draft models.LoanDraft) error {
	if err := s.store.Put(ctx, draft); err != nil {
		return fmt.Errorf("persist draft: %w", err)
	}

	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.cache.Set(ctx, DraftCacheKey(draft.UserID), data, s.cacheTTL).Err(); err != nil {
		// The store write already succeeded; the cache will heal on next read.
		s.log.Warn().Err(err).Str("user_id", draft.UserID).Msg("draft cache write failed")
	}
	return nil
}
