package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/models"
	"lendflow/internal/repository"
)

type memoryDraftStore struct {
	drafts map[string]models.LoanDraft
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: make(map[string]models.LoanDraft)}
}

func (m *memoryDraftStore) Get(_ context.Context, userID string) (models.LoanDraft, error) {
	draft, ok := m.drafts[userID]
	if !ok {
		return models.LoanDraft{}, repository.ErrDraftNotFound
	}
	return draft, nil
}

func (m *memoryDraftStore) Put(_ context.Context, draft models.LoanDraft) error {
	m.drafts[draft.UserID] = draft
	return nil
}

func (m *memoryDraftStore) Delete(_ context.Context, userID string) error {
	delete(m.drafts, userID)
	return nil
}

func newTestDraftService(t *testing.T) (*DraftService, *memoryDraftStore, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := newMemoryDraftStore()
	svc := NewDraftService(store, client, time.Hour, zerolog.Nop())
	return svc, store, client
}

func testPersonalDetails() models.PersonalDetails {
	return models.PersonalDetails{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Mobile:    "9876543210",
		PAN:       "ABCDE1234F",
		City:      "Pune",
	}
}

func testIncomeDetails() models.IncomeDetails {
	return models.IncomeDetails{
		EmploymentType: models.EmploymentSalaried,
		EmployerName:   "Acme Ltd",
		MonthlyIncome:  120000,
	}
}

func testPropertyDetails() models.PropertyDetails {
	return models.PropertyDetails{
		Identified:    true,
		ProjectName:   "Green Acres",
		City:          "Pune",
		EstimatedCost: 9000000,
	}
}

func TestDraftDefaultsForNewUser(t *testing.T) {
	svc, _, _ := newTestDraftService(t)

	draft, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", draft.UserID)
	assert.Equal(t, models.StepPersonal, draft.FormStep)
	assert.Nil(t, draft.PersonalDetails)
	assert.Nil(t, draft.IncomeDetails)
	assert.False(t, draft.IsEligible)
}

func TestWizardAdvancesOneStepAtATime(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	draft, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)
	assert.Equal(t, models.StepIncome, draft.FormStep)
	require.NotNil(t, draft.PersonalDetails)
	assert.Equal(t, "Asha", draft.PersonalDetails.FirstName)

	draft, err = svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)
	assert.Equal(t, models.StepProperty, draft.FormStep)

	draft, err = svc.SavePropertyDetails(ctx, "user-1", testPropertyDetails())
	require.NoError(t, err)
	assert.Equal(t, models.StepFinal, draft.FormStep)

	// earlier steps stay intact
	assert.NotNil(t, draft.PersonalDetails)
	assert.NotNil(t, draft.IncomeDetails)
}

func TestSavePersonalDetailsWithoutAdvance(t *testing.T) {
	svc, _, _ := newTestDraftService(t)

	draft, err := svc.SavePersonalDetails(context.Background(), "user-1", testPersonalDetails(), false)
	require.NoError(t, err)
	assert.Equal(t, models.StepPersonal, draft.FormStep)
	assert.NotNil(t, draft.PersonalDetails)
}

func TestCoApplicantAndOfferDoNotMoveStep(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)

	draft, err := svc.SaveCoApplicant(ctx, "user-1", models.CoApplicant{
		Relation:      "spouse",
		FirstName:     "Ravi",
		MonthlyIncome: 50000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepIncome, draft.FormStep)

	draft, err = svc.SelectOffer(ctx, "user-1", models.SelectedOffer{
		ProductID: "prod-1",
		LFIName:   "HDFC",
		Amount:    5000000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StepIncome, draft.FormStep)
	require.NotNil(t, draft.SelectedOffer)
	assert.Equal(t, "HDFC", draft.SelectedOffer.LFIName)
}

func TestClearCurrentStepOnIncomeStep(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)
	_, err = svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)
	draft, err := svc.GoToPreviousStep(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, models.StepIncome, draft.FormStep)

	draft, err = svc.ClearCurrentStep(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepPersonal, draft.FormStep)
	assert.Nil(t, draft.IncomeDetails)
	assert.NotNil(t, draft.PersonalDetails)
}

func TestClearCurrentStepOnPropertyStep(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)
	_, err = svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)

	draft, err := svc.ClearCurrentStep(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepIncome, draft.FormStep)
	assert.Nil(t, draft.PropertyDetails)
	assert.NotNil(t, draft.IncomeDetails)
}

func TestClearCurrentStepOnFinalStepKeepsData(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)
	_, err = svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)
	_, err = svc.SavePropertyDetails(ctx, "user-1", testPropertyDetails())
	require.NoError(t, err)

	draft, err := svc.ClearCurrentStep(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepProperty, draft.FormStep)
	// step 4 rollback keeps the property data in place
	assert.NotNil(t, draft.PropertyDetails)
}

func TestClearCurrentStepOnFirstStepIsNoOp(t *testing.T) {
	svc, store, _ := newTestDraftService(t)

	draft, err := svc.ClearCurrentStep(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepPersonal, draft.FormStep)
	assert.Empty(t, store.drafts)
}

func TestGoToPreviousStepFloorsAtOne(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	draft, err := svc.GoToPreviousStep(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepPersonal, draft.FormStep)

	_, err = svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)

	draft, err = svc.GoToPreviousStep(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepPersonal, draft.FormStep)
	assert.NotNil(t, draft.PersonalDetails)
}

func TestResetRestoresDefaults(t *testing.T) {
	svc, store, client := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)
	_, err = svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, "user-1"))

	assert.Empty(t, store.drafts)
	err = client.Get(ctx, DraftCacheKey("user-1")).Err()
	assert.ErrorIs(t, err, redis.Nil)

	draft, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepPersonal, draft.FormStep)
	assert.Nil(t, draft.PersonalDetails)
}

func TestPersistWritesThroughToCache(t *testing.T) {
	svc, store, client := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)

	// durable copy
	stored, ok := store.drafts["user-1"]
	require.True(t, ok)
	assert.Equal(t, models.StepIncome, stored.FormStep)

	// cached copy matches it
	data, err := client.Get(ctx, DraftCacheKey("user-1")).Bytes()
	require.NoError(t, err)
	var cached models.LoanDraft
	require.NoError(t, json.Unmarshal(data, &cached))
	assert.Equal(t, stored.FormStep, cached.FormStep)
	require.NotNil(t, cached.PersonalDetails)
	assert.Equal(t, "Asha", cached.PersonalDetails.FirstName)
}

func TestGetPrefersCachedCopy(t *testing.T) {
	svc, store, _ := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)

	// mutate the store behind the cache; Get should still serve the cache
	mutated := store.drafts["user-1"]
	mutated.FormStep = models.StepFinal
	store.drafts["user-1"] = mutated

	draft, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepProperty, draft.FormStep)
}

func TestSetEligibilityRecordsOutcome(t *testing.T) {
	svc, _, _ := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePropertyDetails(ctx, "user-1", testPropertyDetails())
	require.NoError(t, err)

	draft, err := svc.SetEligibility(ctx, "user-1", true, 7500000, "₹75.0L")
	require.NoError(t, err)
	assert.True(t, draft.IsEligible)
	assert.Equal(t, 7500000.0, draft.MaxLoanAmount)
	assert.Equal(t, "₹75.0L", draft.AmountRange)
	assert.Equal(t, models.StepFinal, draft.FormStep)
}

func TestDraftSurvivesStoreRoundTrip(t *testing.T) {
	svc, _, client := newTestDraftService(t)
	ctx := context.Background()

	_, err := svc.SavePersonalDetails(ctx, "user-1", testPersonalDetails(), true)
	require.NoError(t, err)
	_, err = svc.SaveIncomeDetails(ctx, "user-1", testIncomeDetails())
	require.NoError(t, err)

	// drop the cache so the next read hits the store
	require.NoError(t, client.Del(ctx, DraftCacheKey("user-1")).Err())

	draft, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.StepProperty, draft.FormStep)
	require.NotNil(t, draft.IncomeDetails)
	assert.Equal(t, models.EmploymentSalaried, draft.IncomeDetails.EmploymentType)
	assert.Equal(t, 120000.0, draft.IncomeDetails.MonthlyIncome)
}
