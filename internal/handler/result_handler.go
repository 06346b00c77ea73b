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

// ResultHandler serves student result views and the admin review workflow.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// ListMine godoc
// GET /api/v1/results
// Lists the student's reviewed results. Unreviewed results are withheld.
func (h *ResultHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.resultService.ListConfirmedForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// GetMine godoc
// GET /api/v1/bookings/:id/result
// Returns the full reviewed result for one of the student's bookings.
func (h *ResultHandler) GetMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.resultService.GetForUser(c.Request.Context(), bookingID, claims.UserID)
	if err != nil {
		failResultError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetMineSummary godoc
// GET /api/v1/bookings/:id/result/summary
// Returns the compact score view for one of the student's bookings.
func (h *ResultHandler) GetMineSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	summary, err := h.resultService.GetBookingSummary(c.Request.Context(), bookingID, claims.UserID)
	if err != nil {
		failResultError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// GetMineEmotions godoc
// GET /api/v1/bookings/:id/result/emotions
// Returns the proctoring emotion summary for one of the student's bookings.
func (h *ResultHandler) GetMineEmotions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	report, err := h.resultService.GetEmotionReport(c.Request.Context(), bookingID, claims.UserID)
	if err != nil {
		failResultError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"emotion_report": report})
}

// ListPending godoc
// GET /api/v1/admin/results/pending
// Lists unreviewed results for the review queue.
func (h *ResultHandler) ListPending(c *gin.Context) {
	results, err := h.resultService.ListPending(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// Get godoc
// GET /api/v1/admin/results/:id
// Returns one result for review, rebuilding its evaluation if missing.
func (h *ResultHandler) Get(c *gin.Context) {
	resultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.resultService.GetByID(c.Request.Context(), resultID)
	if err != nil {
		failResultError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Confirm godoc
// POST /api/v1/admin/results/:id/confirm
// Finalizes a result with the admin's evaluation and marks, and notifies
// the student by email.
func (h *ResultHandler) Confirm(c *gin.Context) {
	resultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ConfirmResultRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.resultService.Confirm(c.Request.Context(), resultID, &req)
	if err != nil {
		failResultError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Delete godoc
// DELETE /api/v1/admin/results/:id
// Removes a result.
func (h *ResultHandler) Delete(c *gin.Context) {
	resultID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.resultService.Delete(c.Request.Context(), resultID); err != nil {
		failResultError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// failResultError maps result service errors to API errors.
func failResultError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResultNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrResultNotReviewed):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrNotBookingOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
