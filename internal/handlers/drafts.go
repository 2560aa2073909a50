package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lendflow/internal/models"
)

type draftResponse struct {
	UserID          string                  `json:"userId"`
	PersonalDetails *models.PersonalDetails `json:"personalDetails"`
	IncomeDetails   *models.IncomeDetails   `json:"incomeDetails"`
	PropertyDetails *models.PropertyDetails `json:"propertyDetails"`
	CoApplicant     *models.CoApplicant     `json:"coApplicant"`
	LoanType        string                  `json:"loanType,omitempty"`
	FormStep        int                     `json:"formStep"`
	IsEligible      bool                    `json:"isEligible"`
	MaxLoanAmount   float64                 `json:"maxLoanAmount"`
	AmountRange     string                  `json:"amountRangeFormatted,omitempty"`
	SelectedOffer   *models.SelectedOffer   `json:"selectedOffer"`
}

func toDraftResponse(draft models.LoanDraft) draftResponse {
	return draftResponse{
		UserID:          draft.UserID,
		PersonalDetails: draft.PersonalDetails,
		IncomeDetails:   draft.IncomeDetails,
		PropertyDetails: draft.PropertyDetails,
		CoApplicant:     draft.CoApplicant,
		LoanType:        draft.LoanType,
		FormStep:        draft.FormStep,
		IsEligible:      draft.IsEligible,
		MaxLoanAmount:   draft.MaxLoanAmount,
		AmountRange:     draft.AmountRange,
		SelectedOffer:   draft.SelectedOffer,
	}
}

func sendDraft(c *gin.Context, draft models.LoanDraft, err error) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "draft_save_failed"})
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

type personalDetailsRequest struct {
	Data        *models.PersonalDetails `json:"data" binding:"required"`
	AdvanceStep bool                    `json:"advanceStep"`
}

func (h HandlerSet) SavePersonalDetails(c *gin.Context) {
	var req personalDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	draft, err := h.drafts.SavePersonalDetails(c.Request.Context(), user.ID, *req.Data, req.AdvanceStep)
	sendDraft(c, draft, err)
}

type incomeDetailsRequest struct {
	Data *models.IncomeDetails `json:"data" binding:"required"`
}

func (h HandlerSet) SaveIncomeDetails(c *gin.Context) {
	var req incomeDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	draft, err := h.drafts.SaveIncomeDetails(c.Request.Context(), user.ID, *req.Data)
	sendDraft(c, draft, err)
}

type propertyDetailsRequest struct {
	Data *models.PropertyDetails `json:"data" binding:"required"`
}

func (h HandlerSet) SavePropertyDetails(c *gin.Context) {
	var req propertyDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	draft, err := h.drafts.SavePropertyDetails(c.Request.Context(), user.ID, *req.Data)
	sendDraft(c, draft, err)
}

type coApplicantRequest struct {
	Data *models.CoApplicant `json:"data" binding:"required"`
}

func (h HandlerSet) SaveCoApplicant(c *gin.Context) {
	var req coApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	draft, err := h.drafts.SaveCoApplicant(c.Request.Context(), user.ID, *req.Data)
	sendDraft(c, draft, err)
}

type loanTypeRequest struct {
	LoanType string `json:"loanType" binding:"required"`
}

func (h HandlerSet) SaveLoanType(c *gin.Context) {
	var req loanTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	draft, err := h.drafts.SaveLoanType(c.Request.Context(), user.ID, req.LoanType)
	sendDraft(c, draft, err)
}

type selectOfferRequest struct {
	Offer *models.SelectedOffer `json:"offer" binding:"required"`
}

func (h HandlerSet) SelectOffer(c *gin.Context) {
	var req selectOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	draft, err := h.drafts.SelectOffer(c.Request.Context(), user.ID, *req.Offer)
	sendDraft(c, draft, err)
}

func (h HandlerSet) ClearStep(c *gin.Context) {
	user := currentUser(c)
	draft, err := h.drafts.ClearCurrentStep(c.Request.Context(), user.ID)
	sendDraft(c, draft, err)
}

func (h HandlerSet) PreviousStep(c *gin.Context) {
	user := currentUser(c)
	draft, err := h.drafts.GoToPreviousStep(c.Request.Context(), user.ID)
	sendDraft(c, draft, err)
}

func (h HandlerSet) ResetDraft(c *gin.Context) {
	user := currentUser(c)
	if err := h.drafts.Reset(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "draft_reset_failed"})
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(models.NewLoanDraft(user.ID)))
}

func (h HandlerSet) GetDraft(c *gin.Context) {
	userID, allowed := subjectUserID(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "draft_load_failed"})
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// The detail getters return 404 when the step has never been filled in. The
// client treats that as "no record yet", not a failure.
func (h HandlerSet) GetPersonalDetails(c *gin.Context) {
	h.sendDetail(c, func(draft models.LoanDraft) any {
		if draft.PersonalDetails == nil {
			return nil
		}
		return draft.PersonalDetails
	})
}

func (h HandlerSet) GetIncomeDetails(c *gin.Context) {
	h.sendDetail(c, func(draft models.LoanDraft) any {
		if draft.IncomeDetails == nil {
			return nil
		}
		return draft.IncomeDetails
	})
}

func (h HandlerSet) GetPropertyDetails(c *gin.Context) {
	h.sendDetail(c, func(draft models.LoanDraft) any {
		if draft.PropertyDetails == nil {
			return nil
		}
		return draft.PropertyDetails
	})
}

func (h HandlerSet) GetCoApplicant(c *gin.Context) {
	h.sendDetail(c, func(draft models.LoanDraft) any {
		if draft.CoApplicant == nil {
			return nil
		}
		return draft.CoApplicant
	})
}

func (h HandlerSet) sendDetail(c *gin.Context, pick func(models.LoanDraft) any) {
	userID, allowed := subjectUserID(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "draft_load_failed"})
		return
	}

	detail := pick(draft)
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail, "formStep": draft.FormStep})
}
