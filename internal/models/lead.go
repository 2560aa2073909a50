package models

import "time"

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusQualified  LeadStatus = "qualified"
	LeadStatusSanctioned LeadStatus = "sanctioned"
	LeadStatusDropped    LeadStatus = "dropped"
)

type Lead struct {
	ID             string
	SalesManagerID string
	CustomerID     string
	Name           string
	Mobile         string
	Email          string
	LoanType       string
	Source         string
	Status         LeadStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LeadFilter is translated into SQL by the repository; list pages never filter
// in memory.
type LeadFilter struct {
	Status string
	Query  string
	Limit  int
	Offset int
}
