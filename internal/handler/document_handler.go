package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veritest/veritest-backend/internal/middleware"
	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/response"
	"github.com/veritest/veritest-backend/internal/service"
	"github.com/veritest/veritest-backend/internal/validator"
)

// DocumentHandler handles verification document upload and review.
type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadBytes  int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService *service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// Upload godoc
// POST /api/v1/documents
// Accepts a multipart file field "file" with an optional "doc_type" field.
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	docType := c.PostForm("doc_type")
	if docType == "" {
		docType = "identity"
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.documentService.Upload(c.Request.Context(), claims.UserID, docType, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"document": doc})
}

// ListMine godoc
// GET /api/v1/documents
// Lists the student's own documents.
func (h *DocumentHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	docs, err := h.documentService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"documents": docs})
}

// DownloadMine godoc
// GET /api/v1/documents/:id/download
// Returns a short-lived presigned URL for one of the student's documents.
func (h *DocumentHandler) DownloadMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), docID, claims.UserID, true)
	if err != nil {
		failDocumentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// ListAll godoc
// GET /api/v1/admin/documents
// Lists every document with owner context.
func (h *DocumentHandler) ListAll(c *gin.Context) {
	docs, err := h.documentService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"documents": docs})
}

// Review godoc
// PATCH /api/v1/admin/documents/:id/status
// Approves or rejects a document.
func (h *DocumentHandler) Review(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateDocumentStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.documentService.Review(c.Request.Context(), docID, model.DocumentStatus(req.Status)); err != nil {
		failDocumentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Download godoc
// GET /api/v1/admin/documents/:id/download
// Returns a presigned URL for any document.
func (h *DocumentHandler) Download(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), docID, uuid.Nil, false)
	if err != nil {
		failDocumentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url})
}

// Delete godoc
// DELETE /api/v1/admin/documents/:id
// Removes a document and its stored object.
func (h *DocumentHandler) Delete(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), docID); err != nil {
		failDocumentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// failDocumentError maps document service errors to API errors.
func failDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotDocumentOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
