package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lendflow/internal/models"
	"lendflow/internal/prefill"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

// managerScope resolves the :salesManagerId segment. A sales manager only
// sees their own book; coordinator and administrator roles see any.
func managerScope(c *gin.Context) (string, bool) {
	user := currentUser(c)
	target := c.Param("salesManagerId")
	if target == "" || target == user.ID {
		return user.ID, true
	}
	switch user.Role {
	case models.UserRoleLoanCoordinator, models.UserRoleLoanAdministrator, models.UserRoleSuperAdmin:
		return target, true
	default:
		return "", false
	}
}

func leadFilterFromQuery(c *gin.Context) models.LeadFilter {
	filter := models.LeadFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
		Limit:  50,
	}
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			filter.Limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			filter.Offset = (v - 1) * filter.Limit
		}
	}
	return filter
}

func toLeadResponse(lead models.Lead) gin.H {
	return gin.H{
		"id":         lead.ID,
		"customerId": lead.CustomerID,
		"name":       lead.Name,
		"mobile":     lead.Mobile,
		"email":      lead.Email,
		"loanType":   lead.LoanType,
		"source":     lead.Source,
		"status":     lead.Status,
		"createdAt":  lead.CreatedAt,
		"updatedAt":  lead.UpdatedAt,
	}
}

func (h HandlerSet) ListLeads(c *gin.Context) {
	managerID, allowed := managerScope(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	leads, err := h.leads.List(c.Request.Context(), managerID, leadFilterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leads_load_failed"})
		return
	}

	items := make([]gin.H, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type createLeadRequest struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name" binding:"required"`
	Mobile     string `json:"mobile" binding:"required"`
	Email      string `json:"email"`
	LoanType   string `json:"loanType"`
	Source     string `json:"source"`
}

func (h HandlerSet) CreateLead(c *gin.Context) {
	managerID, allowed := managerScope(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leads.Create(c.Request.Context(), managerID, service.LeadInput{
		CustomerID: req.CustomerID,
		Name:       req.Name,
		Mobile:     req.Mobile,
		Email:      req.Email,
		LoanType:   req.LoanType,
		Source:     req.Source,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lead_create_failed"})
		return
	}
	c.JSON(http.StatusCreated, toLeadResponse(lead))
}

type leadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateLeadStatus(c *gin.Context) {
	managerID, allowed := managerScope(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req leadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leads.UpdateStatus(c.Request.Context(), c.Param("leadId"), managerID, models.LeadStatus(req.Status))
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toLeadResponse(lead))
}

func (h HandlerSet) ExportLeads(c *gin.Context) {
	managerID, allowed := managerScope(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	filename := "leads-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.leads.ExportCSV(c.Request.Context(), c.Writer, managerID, leadFilterFromQuery(c)); err != nil {
		h.log.Error().Err(err).Str("sales_manager_id", managerID).Msg("lead export failed")
	}
}

func (h HandlerSet) ListManagerSanctions(c *gin.Context) {
	managerID, allowed := managerScope(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	sanctions, err := h.offers.SanctionsBySalesManager(c.Request.Context(), managerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sanctions_load_failed"})
		return
	}

	items := make([]gin.H, 0, len(sanctions))
	for _, s := range sanctions {
		items = append(items, gin.H{
			"id":           s.ID,
			"userId":       s.UserID,
			"lfiName":      s.LFIName,
			"amount":       s.Amount,
			"interestRate": s.InterestRate,
			"tenureMonths": s.TenureMonths,
			"status":       s.Status,
			"issuedAt":     s.IssuedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CustomerEligibility serves the customer's draft in the snake_case shape the
// dashboard forms consume.
func (h HandlerSet) CustomerEligibility(c *gin.Context) {
	raw, err := h.leads.Eligibility(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "eligibility_load_failed"})
		return
	}
	c.JSON(http.StatusOK, raw)
}

func (h HandlerSet) PrefillCustomerDraft(c *gin.Context) {
	var raw prefill.RawDraft
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.leads.PrefillDraft(c.Request.Context(), c.Param("customerId"), raw)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prefill_failed"})
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}
