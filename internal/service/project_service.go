package service

import (
	"context"
	"errors"

	"lendflow/internal/ids"
	"lendflow/internal/models"
	"lendflow/internal/repository"
)

var ErrNotProjectOwner = errors.New("not project owner")

type ProjectService struct {
	projects *repository.ProjectRepository
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

type ProjectInput struct {
	Name       string
	City       string
	State      string
	RERANumber string
	UnitsTotal int
	PriceMin   float64
	PriceMax   float64
}

func (s *ProjectService) Create(ctx context.Context, builderID string, input ProjectInput) (models.Project, error) {
	project := models.Project{
		ID:         ids.New(),
		BuilderID:  builderID,
		Name:       input.Name,
		City:       input.City,
		State:      input.State,
		RERANumber: input.RERANumber,
		Status:     models.ProjectStatusActive,
		UnitsTotal: input.UnitsTotal,
		PriceMin:   input.PriceMin,
		PriceMax:   input.PriceMax,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, builderID string) ([]models.Project, error) {
	return s.projects.ListByBuilder(ctx, builderID)
}

// getOwned loads a project and enforces that it belongs to the builder.
func (s *ProjectService) getOwned(ctx context.Context, projectID, builderID string) (models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return models.Project{}, err
	}
	if project.BuilderID != builderID {
		return models.Project{}, ErrNotProjectOwner
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID, builderID string) (models.Project, error) {
	return s.getOwned(ctx, projectID, builderID)
}

func (s *ProjectService) Update(ctx context.Context, projectID, builderID string, input ProjectInput, status models.ProjectStatus) (models.Project, error) {
	project, err := s.getOwned(ctx, projectID, builderID)
	if err != nil {
		return models.Project{}, err
	}

	project.Name = input.Name
	project.City = input.City
	project.State = input.State
	project.RERANumber = input.RERANumber
	project.UnitsTotal = input.UnitsTotal
	project.PriceMin = input.PriceMin
	project.PriceMax = input.PriceMax
	if status != "" {
		project.Status = status
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID, builderID string) error {
	if _, err := s.getOwned(ctx, projectID, builderID); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID)
}

func (s *ProjectService) AttachAPFDocument(ctx context.Context, projectID, builderID, documentID, lfiName string) (models.APFDocument, error) {
	if _, err := s.getOwned(ctx, projectID, builderID); err != nil {
		return models.APFDocument{}, err
	}

	apf := models.APFDocument{
		ID:         ids.New(),
		ProjectID:  projectID,
		DocumentID: documentID,
		LFIName:    lfiName,
		Status:     "submitted",
	}
	if err := s.projects.CreateAPFDocument(ctx, apf); err != nil {
		return models.APFDocument{}, err
	}
	return apf, nil
}

func (s *ProjectService) ListAPFDocuments(ctx context.Context, projectID, builderID string) ([]models.APFDocument, error) {
	if _, err := s.getOwned(ctx, projectID, builderID); err != nil {
		return nil, err
	}
	return s.projects.ListAPFDocuments(ctx, projectID)
}

type InventoryInput struct {
	Tower      string
	Floor      int
	UnitNumber string
	CarpetArea float64
	Price      float64
	Status     string
}

func (s *ProjectService) AddInventoryUnit(ctx context.Context, projectID, builderID string, input InventoryInput) (models.InventoryUnit, error) {
	if _, err := s.getOwned(ctx, projectID, builderID); err != nil {
		return models.InventoryUnit{}, err
	}

	status := input.Status
	if status == "" {
		status = "available"
	}
	unit := models.InventoryUnit{
		ID:         ids.New(),
		ProjectID:  projectID,
		Tower:      input.Tower,
		Floor:      input.Floor,
		UnitNumber: input.UnitNumber,
		CarpetArea: input.CarpetArea,
		Price:      input.Price,
		Status:     status,
	}
	if err := s.projects.CreateInventoryUnit(ctx, unit); err != nil {
		return models.InventoryUnit{}, err
	}
	return unit, nil
}

func (s *ProjectService) ListInventory(ctx context.Context, projectID, builderID string) ([]models.InventoryUnit, error) {
	if _, err := s.getOwned(ctx, projectID, builderID); err != nil {
		return nil, err
	}
	return s.projects.ListInventory(ctx, projectID)
}
