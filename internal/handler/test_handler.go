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

// TestHandler serves the proctored test session: start and submit.
type TestHandler struct {
	sessionService *service.SessionService
	gradingService *service.GradingService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(sessionService *service.SessionService, gradingService *service.GradingService) *TestHandler {
	return &TestHandler{
		sessionService: sessionService,
		gradingService: gradingService,
	}
}

// Start godoc
// POST /api/v1/tests/:bookingId/start
// Serves the session payload. The first call moves the booking to
// IN_PROGRESS; re-invocation during the attempt returns the same payload.
func (h *TestHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.sessionService.Start(c.Request.Context(), bookingID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotBookingOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
		case errors.Is(err, service.ErrNoTestAttached):
			response.Fail(c, http.StatusConflict, response.ErrNoTestAttached)
		case errors.Is(err, service.ErrTestNotStarted):
			response.Fail(c, http.StatusForbidden, response.ErrTestNotStarted)
		case errors.Is(err, service.ErrAlreadyFinished), errors.Is(err, service.ErrInvalidBookingState):
			response.Fail(c, http.StatusConflict, response.ErrInvalidBookingState)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// Submit godoc
// POST /api/v1/tests/:bookingId/submit
// Grades and persists a completed attempt. Submitting twice returns a
// conflict; the stored result is never overwritten by this endpoint.
func (h *TestHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.gradingService.Submit(c.Request.Context(), bookingID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotBookingOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
		case errors.Is(err, service.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		case errors.Is(err, service.ErrNoTestAttached):
			response.Fail(c, http.StatusConflict, response.ErrNoTestAttached)
		case errors.Is(err, service.ErrInvalidBookingState):
			response.Fail(c, http.StatusConflict, response.ErrInvalidBookingState)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}
