package models

import "time"

// Wizard steps. A step only advances once its detail object is set.
const (
	StepPersonal = 1
	StepIncome   = 2
	StepProperty = 3
	StepFinal    = 4
)

type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "salaried"
	EmploymentSelfEmployed EmploymentType = "selfEmployed"
)

type PersonalDetails struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	DateOfBirth   string `json:"dateOfBirth"`
	PAN           string `json:"pan"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
}

// IncomeDetails is a tagged union: EmploymentType selects which of the two
// field groups is meaningful.
type IncomeDetails struct {
	EmploymentType EmploymentType `json:"employmentType"`

	// salaried
	EmployerName    string  `json:"employerName,omitempty"`
	MonthlyIncome   float64 `json:"monthlyIncome,omitempty"`
	WorkExperience  int     `json:"workExperienceYears,omitempty"`
	MonthlyEMIs     float64 `json:"existingMonthlyEmis,omitempty"`

	// self-employed
	BusinessName    string  `json:"businessName,omitempty"`
	BusinessType    string  `json:"businessType,omitempty"`
	AnnualTurnover  float64 `json:"annualTurnover,omitempty"`
	BusinessVintage int     `json:"businessVintageYears,omitempty"`
	ITRAvailable    bool    `json:"itrAvailable,omitempty"`
}

type PropertyDetails struct {
	Identified     bool    `json:"identified"`
	ProjectName    string  `json:"projectName,omitempty"`
	BuilderName    string  `json:"builderName,omitempty"`
	PropertyType   string  `json:"propertyType,omitempty"`
	City           string  `json:"city,omitempty"`
	State          string  `json:"state,omitempty"`
	EstimatedCost  float64 `json:"estimatedCost,omitempty"`
	AgreementValue float64 `json:"agreementValue,omitempty"`
}

type CoApplicant struct {
	Relation       string         `json:"relation"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	EmploymentType EmploymentType `json:"employmentType,omitempty"`
	MonthlyIncome  float64        `json:"monthlyIncome,omitempty"`
}

type SelectedOffer struct {
	ProductID    string  `json:"productId"`
	LFIName      string  `json:"lfiName"`
	InterestRate float64 `json:"interestRate"`
	Amount       float64 `json:"amount"`
	TenureMonths int     `json:"tenureMonths"`
}

// LoanDraft is the in-progress application for one customer. All mutations go
// through the draft service, which persists the whole draft after every change.
type LoanDraft struct {
	UserID          string
	PersonalDetails *PersonalDetails
	IncomeDetails   *IncomeDetails
	PropertyDetails *PropertyDetails
	CoApplicant     *CoApplicant
	LoanType        string
	FormStep        int
	IsEligible      bool
	MaxLoanAmount   float64
	AmountRange     string
	SelectedOffer   *SelectedOffer
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLoanDraft returns the default draft: step 1, everything unset.
func NewLoanDraft(userID string) LoanDraft {
	return LoanDraft{
		UserID:   userID,
		FormStep: StepPersonal,
	}
}
