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

// BookingHandler handles booking endpoints for students and admins.
type BookingHandler struct {
	bookingService    *service.BookingService
	generationService *service.GenerationService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, generationService *service.GenerationService) *BookingHandler {
	return &BookingHandler{
		bookingService:    bookingService,
		generationService: generationService,
	}
}

// Create godoc
// POST /api/v1/bookings
// Files a booking request. One PENDING booking per user.
func (h *BookingHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateBookingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPendingBookingExists) {
			response.Fail(c, http.StatusConflict, response.ErrPendingBookingExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": booking})
}

// ListMine godoc
// GET /api/v1/bookings
// Lists the authenticated student's bookings, newest first.
func (h *BookingHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	bookings, err := h.bookingService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// GetMine godoc
// GET /api/v1/bookings/:id
// Returns one of the student's own bookings.
func (h *BookingHandler) GetMine(c *gin.Context) {
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

	booking, err := h.bookingService.GetOwned(c.Request.Context(), bookingID, claims.UserID)
	if err != nil {
		failBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// ListAll godoc
// GET /api/v1/admin/bookings
// Lists every booking with requester context.
func (h *BookingHandler) ListAll(c *gin.Context) {
	bookings, err := h.bookingService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// Review godoc
// PATCH /api/v1/admin/bookings/:id/status
// Approves or rejects a PENDING booking.
func (h *BookingHandler) Review(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateBookingStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	booking, err := h.bookingService.Review(c.Request.Context(), bookingID, model.BookingStatus(req.Status))
	if err != nil {
		failBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": booking})
}

// GenerateTest godoc
// POST /api/v1/admin/bookings/:id/generate
// Generates an AI question paper for a PENDING booking and approves it.
func (h *BookingHandler) GenerateTest(c *gin.Context) {
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

	// Every field is optional, so a bodyless request is fine.
	var req model.GenerateTestRequest
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	summary, err := h.generationService.GenerateForBooking(c.Request.Context(), bookingID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrTestAlreadySet):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, service.ErrInvalidBookingState):
			response.Fail(c, http.StatusConflict, response.ErrInvalidBookingState)
		case errors.Is(err, service.ErrGenerationFailed):
			response.Fail(c, http.StatusBadGateway, response.ErrGenerationFailed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"generation": summary})
}

// Delete godoc
// DELETE /api/v1/admin/bookings/:id
// Removes a booking.
func (h *BookingHandler) Delete(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.bookingService.Delete(c.Request.Context(), bookingID); err != nil {
		failBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// failBookingError maps booking service errors to API errors.
func failBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotBookingOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotResourceOwner)
	case errors.Is(err, service.ErrInvalidBookingState):
		response.Fail(c, http.StatusConflict, response.ErrInvalidBookingState)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
