package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lendflow/internal/repository"
	"lendflow/internal/service"
)

// CalculateOffers runs eligibility for the subject's draft and returns the
// per-lender offers. The outcome is also written back onto the draft.
func (h HandlerSet) CalculateOffers(c *gin.Context) {
	userID, allowed := subjectUserID(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	result, err := h.offers.Calculate(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "offer_calculation_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isEligible":           result.IsEligible,
		"maxLoanAmount":        result.MaxLoanAmount,
		"amountRangeFormatted": result.AmountRange,
		"offers":               result.Offers,
	})
}

func (h HandlerSet) ListSanctions(c *gin.Context) {
	userID, allowed := subjectUserID(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	sanctions, err := h.offers.SanctionsByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sanctions_load_failed"})
		return
	}

	items := make([]gin.H, 0, len(sanctions))
	for _, s := range sanctions {
		items = append(items, gin.H{
			"id":           s.ID,
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

type createSanctionRequest struct {
	UserID       string  `json:"userId" binding:"required"`
	LFIName      string  `json:"lfiName" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	InterestRate float64 `json:"interestRate" binding:"required"`
	TenureMonths int     `json:"tenureMonths" binding:"required"`
}

// CreateSanction records an approved offer for a customer. Letter generation
// happens on the worker; the letter endpoint returns 404 until it lands.
func (h HandlerSet) CreateSanction(c *gin.Context) {
	managerID, allowed := managerScope(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req createSanctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sanction, err := h.offers.CreateSanction(c.Request.Context(), service.SanctionInput{
		UserID:         req.UserID,
		SalesManagerID: managerID,
		LFIName:        req.LFIName,
		Amount:         req.Amount,
		InterestRate:   req.InterestRate,
		TenureMonths:   req.TenureMonths,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sanction_create_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           sanction.ID,
		"userId":       sanction.UserID,
		"lfiName":      sanction.LFIName,
		"amount":       sanction.Amount,
		"interestRate": sanction.InterestRate,
		"tenureMonths": sanction.TenureMonths,
		"status":       sanction.Status,
		"issuedAt":     sanction.IssuedAt,
	})
}

// DownloadSanctionLetter streams the generated PDF for the subject's latest
// sanction straight from the object store.
func (h HandlerSet) DownloadSanctionLetter(c *gin.Context) {
	userID, allowed := subjectUserID(c)
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	sanction, err := h.offers.LatestSanction(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrSanctionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sanction_load_failed"})
		return
	}
	if sanction.LetterKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "letter_not_ready"})
		return
	}

	reader, size, err := h.store.Open(c.Request.Context(), h.store.LettersBucket(), sanction.LetterKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "letter_load_failed"})
		return
	}
	defer reader.Close()

	disposition := fmt.Sprintf("attachment; filename=%q", "sanction-letter-"+sanction.ID+".pdf")
	c.DataFromReader(http.StatusOK, size, "application/pdf", reader, map[string]string{
		"Content-Disposition": disposition,
	})
}
