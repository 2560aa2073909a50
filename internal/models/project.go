package models

import "time"

type ProjectStatus string

const (
	ProjectStatusDraft    ProjectStatus = "draft"
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

type Project struct {
	ID          string
	BuilderID   string
	Name        string
	City        string
	State       string
	RERANumber  string
	Status      ProjectStatus
	UnitsTotal  int
	PriceMin    float64
	PriceMax    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// APFDocument links an uploaded document to a project for a specific lender's
// approved-project-financing validation.
type APFDocument struct {
	ID         string
	ProjectID  string
	DocumentID string
	LFIName    string
	Status     string
	CreatedAt  time.Time
}

type InventoryUnit struct {
	ID         string
	ProjectID  string
	Tower      string
	Floor      int
	UnitNumber string
	CarpetArea float64
	Price      float64
	Status     string
	CreatedAt  time.Time
}
