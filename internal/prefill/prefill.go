// Package prefill is the single place snake_case wire payloads are mapped to
// and from the camelCase draft shape. Privileged screens (sales-manager
// eligibility) exchange drafts in the snake_case form; everything internal
// uses models.LoanDraft.
package prefill

import "lendflow/internal/models"

type RawPersonalDetails struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	DateOfBirth   string `json:"date_of_birth"`
	PAN           string `json:"pan_number"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
}

type RawIncomeDetails struct {
	EmploymentType  string  `json:"employment_type"`
	EmployerName    string  `json:"employer_name,omitempty"`
	MonthlyIncome   float64 `json:"monthly_income,omitempty"`
	WorkExperience  int     `json:"work_experience_years,omitempty"`
	MonthlyEMIs     float64 `json:"existing_monthly_emis,omitempty"`
	BusinessName    string  `json:"business_name,omitempty"`
	BusinessType    string  `json:"business_type,omitempty"`
	AnnualTurnover  float64 `json:"annual_turnover,omitempty"`
	BusinessVintage int     `json:"business_vintage_years,omitempty"`
	ITRAvailable    bool    `json:"itr_available,omitempty"`
}

type RawPropertyDetails struct {
	Identified     bool    `json:"identified"`
	ProjectName    string  `json:"project_name,omitempty"`
	BuilderName    string  `json:"builder_name,omitempty"`
	PropertyType   string  `json:"property_type,omitempty"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state,omitempty"`
	EstimatedCost  float64 `json:"estimated_cost,omitempty"`
	AgreementValue float64 `json:"agreement_value,omitempty"`
}

type RawCoApplicant struct {
	Relation       string  `json:"relation"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	EmploymentType string  `json:"employment_type,omitempty"`
	MonthlyIncome  float64 `json:"monthly_income,omitempty"`
}

type RawSelectedOffer struct {
	ProductID    string  `json:"product_id"`
	LFIName      string  `json:"lfi_name"`
	InterestRate float64 `json:"interest_rate"`
	Amount       float64 `json:"amount"`
	TenureMonths int     `json:"tenure_months"`
}

type RawDraft struct {
	UserID          string              `json:"user_id"`
	PersonalDetails *RawPersonalDetails `json:"personal_details"`
	IncomeDetails   *RawIncomeDetails   `json:"income_details"`
	PropertyDetails *RawPropertyDetails `json:"property_details"`
	CoApplicant     *RawCoApplicant     `json:"co_applicant"`
	LoanType        string              `json:"loan_type"`
	FormStep        int                 `json:"form_step"`
	IsEligible      bool                `json:"is_eligible"`
	MaxLoanAmount   float64             `json:"max_loan_amount"`
	AmountRange     string              `json:"amount_range_formatted"`
	SelectedOffer   *RawSelectedOffer   `json:"selected_offer"`
}

// ToDraft maps an externally supplied snake_case payload into the draft shape.
func ToDraft(raw RawDraft) models.LoanDraft {
	draft := models.LoanDraft{
		UserID:        raw.UserID,
		LoanType:      raw.LoanType,
		FormStep:      raw.FormStep,
		IsEligible:    raw.IsEligible,
		MaxLoanAmount: raw.MaxLoanAmount,
		AmountRange:   raw.AmountRange,
	}
	if draft.FormStep < models.StepPersonal {
		draft.FormStep = models.StepPersonal
	}

	if p := raw.PersonalDetails; p != nil {
		draft.PersonalDetails = &models.PersonalDetails{
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Email:         p.Email,
			Mobile:        p.Mobile,
			DateOfBirth:   p.DateOfBirth,
			PAN:           p.PAN,
			Gender:        p.Gender,
			MaritalStatus: p.MaritalStatus,
			City:          p.City,
			State:         p.State,
			Pincode:       p.Pincode,
		}
	}
	if in := raw.IncomeDetails; in != nil {
		draft.IncomeDetails = &models.IncomeDetails{
			EmploymentType:  models.EmploymentType(in.EmploymentType),
			EmployerName:    in.EmployerName,
			MonthlyIncome:   in.MonthlyIncome,
			WorkExperience:  in.WorkExperience,
			MonthlyEMIs:     in.MonthlyEMIs,
			BusinessName:    in.BusinessName,
			BusinessType:    in.BusinessType,
			AnnualTurnover:  in.AnnualTurnover,
			BusinessVintage: in.BusinessVintage,
			ITRAvailable:    in.ITRAvailable,
		}
	}
	if pr := raw.PropertyDetails; pr != nil {
		draft.PropertyDetails = &models.PropertyDetails{
			Identified:     pr.Identified,
			ProjectName:    pr.ProjectName,
			BuilderName:    pr.BuilderName,
			PropertyType:   pr.PropertyType,
			City:           pr.City,
			State:          pr.State,
			EstimatedCost:  pr.EstimatedCost,
			AgreementValue: pr.AgreementValue,
		}
	}
	if co := raw.CoApplicant; co != nil {
		draft.CoApplicant = &models.CoApplicant{
			Relation:       co.Relation,
			FirstName:      co.FirstName,
			LastName:       co.LastName,
			EmploymentType: models.EmploymentType(co.EmploymentType),
			MonthlyIncome:  co.MonthlyIncome,
		}
	}
	if of := raw.SelectedOffer; of != nil {
		draft.SelectedOffer = &models.SelectedOffer{
			ProductID:    of.ProductID,
			LFIName:      of.LFIName,
			InterestRate: of.InterestRate,
			Amount:       of.Amount,
			TenureMonths: of.TenureMonths,
		}
	}
	return draft
}

// FromDraft is the inverse mapping, used when serving a draft to privileged
// snake_case consumers.
func FromDraft(draft models.LoanDraft) RawDraft {
	raw := RawDraft{
		UserID:        draft.UserID,
		LoanType:      draft.LoanType,
		FormStep:      draft.FormStep,
		IsEligible:    draft.IsEligible,
		MaxLoanAmount: draft.MaxLoanAmount,
		AmountRange:   draft.AmountRange,
	}

	if p := draft.PersonalDetails; p != nil {
		raw.PersonalDetails = &RawPersonalDetails{
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Email:         p.Email,
			Mobile:        p.Mobile,
			DateOfBirth:   p.DateOfBirth,
			PAN:           p.PAN,
			Gender:        p.Gender,
			MaritalStatus: p.MaritalStatus,
			City:          p.City,
			State:         p.State,
			Pincode:       p.Pincode,
		}
	}
	if in := draft.IncomeDetails; in != nil {
		raw.IncomeDetails = &RawIncomeDetails{
			EmploymentType:  string(in.EmploymentType),
			EmployerName:    in.EmployerName,
			MonthlyIncome:   in.MonthlyIncome,
			WorkExperience:  in.WorkExperience,
			MonthlyEMIs:     in.MonthlyEMIs,
			BusinessName:    in.BusinessName,
			BusinessType:    in.BusinessType,
			AnnualTurnover:  in.AnnualTurnover,
			BusinessVintage: in.BusinessVintage,
			ITRAvailable:    in.ITRAvailable,
		}
	}
	if pr := draft.PropertyDetails; pr != nil {
		raw.PropertyDetails = &RawPropertyDetails{
			Identified:     pr.Identified,
			ProjectName:    pr.ProjectName,
			BuilderName:    pr.BuilderName,
			PropertyType:   pr.PropertyType,
			City:           pr.City,
			State:          pr.State,
			EstimatedCost:  pr.EstimatedCost,
			AgreementValue: pr.AgreementValue,
		}
	}
	if co := draft.CoApplicant; co != nil {
		raw.CoApplicant = &RawCoApplicant{
			Relation:       co.Relation,
			FirstName:      co.FirstName,
			LastName:       co.LastName,
			EmploymentType: string(co.EmploymentType),
			MonthlyIncome:  co.MonthlyIncome,
		}
	}
	if of := draft.SelectedOffer; of != nil {
		raw.SelectedOffer = &RawSelectedOffer{
			ProductID:    of.ProductID,
			LFIName:      of.LFIName,
			InterestRate: of.InterestRate,
			Amount:       of.Amount,
			TenureMonths: of.TenureMonths,
		}
	}
	return raw
}
