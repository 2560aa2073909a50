package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lendflow/internal/models"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

type projectRequest struct {
	Name       string  `json:"name" binding:"required"`
	City       string  `json:"city" binding:"required"`
	State      string  `json:"state" binding:"required"`
	RERANumber string  `json:"reraNumber"`
	UnitsTotal int     `json:"unitsTotal"`
	PriceMin   float64 `json:"priceMin"`
	PriceMax   float64 `json:"priceMax"`
	Status     string  `json:"status"`
}

type projectResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	RERANumber string    `json:"reraNumber"`
	Status     string    `json:"status"`
	UnitsTotal int       `json:"unitsTotal"`
	PriceMin   float64   `json:"priceMin"`
	PriceMax   float64   `json:"priceMax"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toProjectResponse(p models.Project) projectResponse {
	return projectResponse{
		ID:         p.ID,
		Name:       p.Name,
		City:       p.City,
		State:      p.State,
		RERANumber: p.RERANumber,
		Status:     string(p.Status),
		UnitsTotal: p.UnitsTotal,
		PriceMin:   p.PriceMin,
		PriceMax:   p.PriceMax,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func sendProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, service.ErrNotProjectOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project_operation_failed"})
	}
}

func (h HandlerSet) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	project, err := h.projects.Create(c.Request.Context(), user.ID, service.ProjectInput{
		Name:       req.Name,
		City:       req.City,
		State:      req.State,
		RERANumber: req.RERANumber,
		UnitsTotal: req.UnitsTotal,
		PriceMin:   req.PriceMin,
		PriceMax:   req.PriceMax,
	})
	if err != nil {
		sendProjectError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h HandlerSet) ListProjects(c *gin.Context) {
	user := currentUser(c)
	projects, err := h.projects.List(c.Request.Context(), user.ID)
	if err != nil {
		sendProjectError(c, err)
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		items = append(items, toProjectResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) GetProject(c *gin.Context) {
	user := currentUser(c)
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		sendProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h HandlerSet) UpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.ProjectStatus(req.Status)
	switch status {
	case models.ProjectStatusDraft, models.ProjectStatusActive, models.ProjectStatusArchived:
	case "":
		status = models.ProjectStatusActive
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
		return
	}

	user := currentUser(c)
	project, err := h.projects.Update(c.Request.Context(), c.Param("id"), user.ID, service.ProjectInput{
		Name:       req.Name,
		City:       req.City,
		State:      req.State,
		RERANumber: req.RERANumber,
		UnitsTotal: req.UnitsTotal,
		PriceMin:   req.PriceMin,
		PriceMax:   req.PriceMax,
	}, status)
	if err != nil {
		sendProjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h HandlerSet) DeleteProject(c *gin.Context) {
	user := currentUser(c)
	if err := h.projects.Delete(c.Request.Context(), c.Param("id"), user.ID); err != nil {
		sendProjectError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type apfDocumentRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	LFIName    string `json:"lfiName" binding:"required"`
}

func (h HandlerSet) AttachAPFDocument(c *gin.Context) {
	var req apfDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	apf, err := h.projects.AttachAPFDocument(c.Request.Context(), c.Param("id"), user.ID, req.DocumentID, req.LFIName)
	if err != nil {
		sendProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         apf.ID,
		"projectId":  apf.ProjectID,
		"documentId": apf.DocumentID,
		"lfiName":    apf.LFIName,
		"status":     apf.Status,
		"createdAt":  apf.CreatedAt,
	})
}

func (h HandlerSet) ListAPFDocuments(c *gin.Context) {
	user := currentUser(c)
	apfs, err := h.projects.ListAPFDocuments(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		sendProjectError(c, err)
		return
	}

	items := make([]gin.H, 0, len(apfs))
	for _, apf := range apfs {
		items = append(items, gin.H{
			"id":         apf.ID,
			"projectId":  apf.ProjectID,
			"documentId": apf.DocumentID,
			"lfiName":    apf.LFIName,
			"status":     apf.Status,
			"createdAt":  apf.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type inventoryUnitRequest struct {
	Tower      string  `json:"tower"`
	Floor      int     `json:"floor"`
	UnitNumber string  `json:"unitNumber" binding:"required"`
	CarpetArea float64 `json:"carpetArea"`
	Price      float64 `json:"price"`
	Status     string  `json:"status"`
}

func (h HandlerSet) AddInventoryUnit(c *gin.Context) {
	var req inventoryUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	unit, err := h.projects.AddInventoryUnit(c.Request.Context(), c.Param("id"), user.ID, service.InventoryInput{
		Tower:      req.Tower,
		Floor:      req.Floor,
		UnitNumber: req.UnitNumber,
		CarpetArea: req.CarpetArea,
		Price:      req.Price,
		Status:     req.Status,
	})
	if err != nil {
		sendProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInventoryResponse(unit))
}

func (h HandlerSet) ListInventory(c *gin.Context) {
	user := currentUser(c)
	units, err := h.projects.ListInventory(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		sendProjectError(c, err)
		return
	}

	items := make([]gin.H, 0, len(units))
	for _, unit := range units {
		items = append(items, toInventoryResponse(unit))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func toInventoryResponse(unit models.InventoryUnit) gin.H {
	return gin.H{
		"id":         unit.ID,
		"projectId":  unit.ProjectID,
		"tower":      unit.Tower,
		"floor":      unit.Floor,
		"unitNumber": unit.UnitNumber,
		"carpetArea": unit.CarpetArea,
		"price":      unit.Price,
		"status":     unit.Status,
		"createdAt":  unit.CreatedAt,
	}
}
