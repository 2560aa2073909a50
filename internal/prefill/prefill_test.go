package prefill

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/models"
)

func fullRawDraft() RawDraft {
	return RawDraft{
		UserID: "user-1",
		PersonalDetails: &RawPersonalDetails{
			FirstName:     "Asha",
			LastName:      "Rao",
			Email:         "asha@example.com",
			Mobile:        "9876543210",
			DateOfBirth:   "1991-04-12",
			PAN:           "ABCDE1234F",
			Gender:        "female",
			MaritalStatus: "married",
			City:          "Pune",
			State:         "Maharashtra",
			Pincode:       "411001",
		},
		IncomeDetails: &RawIncomeDetails{
			EmploymentType: "salaried",
			EmployerName:   "Acme Ltd",
			MonthlyIncome:  120000,
			WorkExperience: 6,
			MonthlyEMIs:    15000,
		},
		PropertyDetails: &RawPropertyDetails{
			Identified:     true,
			ProjectName:    "Green Acres",
			BuilderName:    "Sunrise Developers",
			PropertyType:   "apartment",
			City:           "Pune",
			State:          "Maharashtra",
			EstimatedCost:  9000000,
			AgreementValue: 8500000,
		},
		CoApplicant: &RawCoApplicant{
			Relation:       "spouse",
			FirstName:      "Ravi",
			LastName:       "Rao",
			EmploymentType: "salaried",
			MonthlyIncome:  50000,
		},
		LoanType:      "home",
		FormStep:      3,
		IsEligible:    true,
		MaxLoanAmount: 7500000,
		AmountRange:   "₹60.0L - ₹75.0L",
		SelectedOffer: &RawSelectedOffer{
			ProductID:    "prod-1",
			LFIName:      "HDFC",
			InterestRate: 8.5,
			Amount:       7000000,
			TenureMonths: 240,
		},
	}
}

func TestToDraftMapsEveryField(t *testing.T) {
	draft := ToDraft(fullRawDraft())

	assert.Equal(t, "user-1", draft.UserID)
	assert.Equal(t, "home", draft.LoanType)
	assert.Equal(t, 3, draft.FormStep)
	assert.True(t, draft.IsEligible)
	assert.Equal(t, 7500000.0, draft.MaxLoanAmount)
	assert.Equal(t, "₹60.0L - ₹75.0L", draft.AmountRange)

	require.NotNil(t, draft.PersonalDetails)
	assert.Equal(t, "Asha", draft.PersonalDetails.FirstName)
	assert.Equal(t, "Rao", draft.PersonalDetails.LastName)
	assert.Equal(t, "asha@example.com", draft.PersonalDetails.Email)
	assert.Equal(t, "9876543210", draft.PersonalDetails.Mobile)
	assert.Equal(t, "1991-04-12", draft.PersonalDetails.DateOfBirth)
	assert.Equal(t, "ABCDE1234F", draft.PersonalDetails.PAN)
	assert.Equal(t, "female", draft.PersonalDetails.Gender)
	assert.Equal(t, "married", draft.PersonalDetails.MaritalStatus)
	assert.Equal(t, "Pune", draft.PersonalDetails.City)
	assert.Equal(t, "Maharashtra", draft.PersonalDetails.State)
	assert.Equal(t, "411001", draft.PersonalDetails.Pincode)

	require.NotNil(t, draft.IncomeDetails)
	assert.Equal(t, models.EmploymentSalaried, draft.IncomeDetails.EmploymentType)
	assert.Equal(t, "Acme Ltd", draft.IncomeDetails.EmployerName)
	assert.Equal(t, 120000.0, draft.IncomeDetails.MonthlyIncome)
	assert.Equal(t, 6, draft.IncomeDetails.WorkExperience)
	assert.Equal(t, 15000.0, draft.IncomeDetails.MonthlyEMIs)

	require.NotNil(t, draft.PropertyDetails)
	assert.True(t, draft.PropertyDetails.Identified)
	assert.Equal(t, "Green Acres", draft.PropertyDetails.ProjectName)
	assert.Equal(t, "Sunrise Developers", draft.PropertyDetails.BuilderName)
	assert.Equal(t, 9000000.0, draft.PropertyDetails.EstimatedCost)
	assert.Equal(t, 8500000.0, draft.PropertyDetails.AgreementValue)

	require.NotNil(t, draft.CoApplicant)
	assert.Equal(t, "spouse", draft.CoApplicant.Relation)
	assert.Equal(t, "Ravi", draft.CoApplicant.FirstName)
	assert.Equal(t, models.EmploymentSalaried, draft.CoApplicant.EmploymentType)
	assert.Equal(t, 50000.0, draft.CoApplicant.MonthlyIncome)

	require.NotNil(t, draft.SelectedOffer)
	assert.Equal(t, "prod-1", draft.SelectedOffer.ProductID)
	assert.Equal(t, "HDFC", draft.SelectedOffer.LFIName)
	assert.Equal(t, 8.5, draft.SelectedOffer.InterestRate)
	assert.Equal(t, 7000000.0, draft.SelectedOffer.Amount)
	assert.Equal(t, 240, draft.SelectedOffer.TenureMonths)
}

func TestToDraftFloorsFormStep(t *testing.T) {
	draft := ToDraft(RawDraft{UserID: "user-1", FormStep: 0})
	assert.Equal(t, models.StepPersonal, draft.FormStep)
}

func TestToDraftKeepsMissingSectionsNil(t *testing.T) {
	draft := ToDraft(RawDraft{UserID: "user-1", FormStep: 1})
	assert.Nil(t, draft.PersonalDetails)
	assert.Nil(t, draft.IncomeDetails)
	assert.Nil(t, draft.PropertyDetails)
	assert.Nil(t, draft.CoApplicant)
	assert.Nil(t, draft.SelectedOffer)
}

func TestFromDraftRoundTrips(t *testing.T) {
	raw := fullRawDraft()
	assert.Equal(t, raw, FromDraft(ToDraft(raw)))
}

func TestRawDraftUsesSnakeCaseWireNames(t *testing.T) {
	data, err := json.Marshal(fullRawDraft())
	require.NoError(t, err)
	payload := string(data)

	for _, key := range []string{
		`"user_id"`, `"personal_details"`, `"income_details"`, `"property_details"`,
		`"co_applicant"`, `"loan_type"`, `"form_step"`, `"is_eligible"`,
		`"max_loan_amount"`, `"amount_range_formatted"`, `"selected_offer"`,
		`"first_name"`, `"pan_number"`, `"employment_type"`, `"monthly_income"`,
		`"existing_monthly_emis"`, `"project_name"`, `"estimated_cost"`,
		`"interest_rate"`, `"tenure_months"`,
	} {
		assert.Contains(t, payload, key)
	}

	assert.NotContains(t, payload, `"firstName"`)
	assert.NotContains(t, payload, `"monthlyIncome"`)
}

func TestSelfEmployedIncomeMapping(t *testing.T) {
	raw := RawDraft{
		UserID: "user-1",
		IncomeDetails: &RawIncomeDetails{
			EmploymentType:  "selfEmployed",
			BusinessName:    "Rao Traders",
			BusinessType:    "proprietorship",
			AnnualTurnover:  4800000,
			BusinessVintage: 7,
			ITRAvailable:    true,
		},
	}

	draft := ToDraft(raw)
	require.NotNil(t, draft.IncomeDetails)
	assert.Equal(t, models.EmploymentSelfEmployed, draft.IncomeDetails.EmploymentType)
	assert.Equal(t, "Rao Traders", draft.IncomeDetails.BusinessName)
	assert.Equal(t, "proprietorship", draft.IncomeDetails.BusinessType)
	assert.Equal(t, 4800000.0, draft.IncomeDetails.AnnualTurnover)
	assert.Equal(t, 7, draft.IncomeDetails.BusinessVintage)
	assert.True(t, draft.IncomeDetails.ITRAvailable)

	back := FromDraft(draft)
	require.NotNil(t, back.IncomeDetails)
	assert.Equal(t, "selfEmployed", back.IncomeDetails.EmploymentType)
}
