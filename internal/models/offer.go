package models

import "time"

// LFIProduct is one lender's home-loan product. Offer calculation runs the
// draft against every active product row.
type LFIProduct struct {
	ID               string
	LFIName          string
	MinRate          float64
	MaxRate          float64
	MaxAmount        float64
	MinMonthlyIncome float64
	MaxTenureMonths  int
	FOIR             float64
	Active           bool
	CreatedAt        time.Time
}

type LoanOffer struct {
	ProductID    string  `json:"productId"`
	LFIName      string  `json:"lfiName"`
	InterestRate float64 `json:"interestRate"`
	Amount       float64 `json:"amount"`
	TenureMonths int     `json:"tenureMonths"`
	EMI          float64 `json:"emi"`
}

type SanctionStatus string

const (
	SanctionStatusIssued  SanctionStatus = "issued"
	SanctionStatusExpired SanctionStatus = "expired"
)

type Sanction struct {
	ID             string
	UserID         string
	SalesManagerID string
	LFIName        string
	Amount         float64
	InterestRate   float64
	TenureMonths   int
	Status         SanctionStatus
	LetterKey      string
	IssuedAt       time.Time
	CreatedAt      time.Time
}
