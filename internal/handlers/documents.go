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

type uploadURLRequest struct {
	Key         string `json:"key" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	ProjectID   string `json:"projectId"`
}

type documentResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ContentType string     `json:"contentType"`
	SizeBytes   int64      `json:"sizeBytes"`
	State       string     `json:"state"`
	ProjectID   string     `json:"projectId,omitempty"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toDocumentResponse(doc models.Document) documentResponse {
	return documentResponse{
		ID:          doc.ID,
		Name:        doc.Name,
		ContentType: doc.ContentType,
		SizeBytes:   doc.SizeBytes,
		State:       string(doc.State),
		ProjectID:   doc.ProjectID,
		ConfirmedAt: doc.ConfirmedAt,
		CreatedAt:   doc.CreatedAt,
	}
}

// RequestUploadURL opens the upload saga: it records a pending document row
// and hands back a presigned PUT URL the client uploads to directly.
func (h HandlerSet) RequestUploadURL(c *gin.Context) {
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	grant, err := h.docs.RequestUpload(c.Request.Context(), user.ID, req.ProjectID, req.Key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_url_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document":  toDocumentResponse(grant.Document),
		"uploadUrl": grant.UploadURL,
	})
}

// ConfirmUpload closes the saga. 409 means the bytes never arrived; the row
// stays pending so the client can retry the PUT and confirm again.
func (h HandlerSet) ConfirmUpload(c *gin.Context) {
	user := currentUser(c)
	doc, err := h.docs.Confirm(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		case errors.Is(err, service.ErrNotDocumentOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		case errors.Is(err, service.ErrUploadIncomplete):
			c.JSON(http.StatusConflict, gin.H{"error": "upload_incomplete"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirm_failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"document": toDocumentResponse(doc)})
}

func (h HandlerSet) DownloadDocument(c *gin.Context) {
	user := currentUser(c)
	privileged := false
	switch user.Role {
	case models.UserRoleSalesManager, models.UserRoleLoanCoordinator,
		models.UserRoleLoanAdministrator, models.UserRoleSuperAdmin:
		privileged = true
	}

	url, err := h.docs.DownloadURL(c.Request.Context(), c.Param("id"), user.ID, privileged)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		case errors.Is(err, service.ErrNotDocumentOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		case errors.Is(err, service.ErrDocumentNotReady):
			c.JSON(http.StatusConflict, gin.H{"error": "document_not_ready"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "download_failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func (h HandlerSet) ListDocuments(c *gin.Context) {
	user := currentUser(c)
	docs, err := h.docs.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "documents_load_failed"})
		return
	}

	items := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toDocumentResponse(doc))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
