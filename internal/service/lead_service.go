package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"lendflow/internal/ids"
	"lendflow/internal/models"
	"lendflow/internal/prefill"
	"lendflow/internal/repository"
)

type LeadService struct {
	leads  *repository.LeadRepository
	drafts *DraftService
}

func NewLeadService(leads *repository.LeadRepository, drafts *DraftService) *LeadService {
	return &LeadService{
		leads:  leads,
		drafts: drafts,
	}
}

type LeadInput struct {
	CustomerID string
	Name       string
	Mobile     string
	Email      string
	LoanType   string
	Source     string
}

func (s *LeadService) Create(ctx context.Context, salesManagerID string, input LeadInput) (models.Lead, error) {
	lead := models.Lead{
		ID:             ids.New(),
		SalesManagerID: salesManagerID,
		CustomerID:     input.CustomerID,
		Name:           input.Name,
		Mobile:         input.Mobile,
		Email:          input.Email,
		LoanType:       input.LoanType,
		Source:         input.Source,
		Status:         models.LeadStatusNew,
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return models.Lead{}, err
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, salesManagerID string, filter models.LeadFilter) ([]models.Lead, error) {
	return s.leads.ListBySalesManager(ctx, salesManagerID, filter)
}

func (s *LeadService) UpdateStatus(ctx context.Context, leadID, salesManagerID string, status models.LeadStatus) (models.Lead, error) {
	switch status {
	case models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified,
		models.LeadStatusSanctioned, models.LeadStatusDropped:
	default:
		return models.Lead{}, fmt.Errorf("unknown lead status %q", status)
	}

	if err := s.leads.UpdateStatus(ctx, leadID, salesManagerID, status); err != nil {
		return models.Lead{}, err
	}
	return s.leads.GetByID(ctx, leadID)
}

// Eligibility serves a customer's draft to a sales manager in the snake_case
// wire shape.
func (s *LeadService) Eligibility(ctx context.Context, customerID string) (prefill.RawDraft, error) {
	return s.drafts.Snapshot(ctx, customerID)
}

// PrefillDraft lets a sales manager push a snapshot back onto a customer's
// draft.
func (s *LeadService) PrefillDraft(ctx context.Context, customerID string, raw prefill.RawDraft) (models.LoanDraft, error) {
	return s.drafts.Prefill(ctx, customerID, raw)
}

// ExportCSV streams the filtered lead list, one row per lead. The dashboard
// downloads this in place of a spreadsheet export.
func (s *LeadService) ExportCSV(ctx context.Context, w io.Writer, salesManagerID string, filter models.LeadFilter) error {
	leads, err := s.leads.ListBySalesManager(ctx, salesManagerID, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "name", "mobile", "email", "loan_type", "source", "status", "created_at"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, lead := range leads {
		record := []string{
			lead.ID,
			lead.Name,
			lead.Mobile,
			lead.Email,
			lead.LoanType,
			lead.Source,
			string(lead.Status),
			lead.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", strconv.Itoa(i), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
