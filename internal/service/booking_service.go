package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/repository"
)

// Booking errors.
var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPendingBookingExists = errors.New("a pending booking already exists for this user")
	ErrInvalidBookingState  = errors.New("booking is not in a state that allows this operation")
	ErrNotBookingOwner      = errors.New("booking belongs to another user")
)

// BookingService manages test booking requests and their review lifecycle.
type BookingService struct {
	bookingRepo *repository.BookingRepository
	log         zerolog.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepo *repository.BookingRepository, log zerolog.Logger) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		log:         log.With().Str("component", "booking_service").Logger(),
	}
}

// Create files a new booking request. A user may hold at most one PENDING
// booking at a time.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	pending, err := s.bookingRepo.HasPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check pending booking: %w", err)
	}
	if pending {
		return nil, ErrPendingBookingExists
	}

	booking := &model.Booking{
		ID:         uuid.New(),
		UserID:     userID,
		Topic:      req.Topic,
		Difficulty: model.Difficulty(req.Difficulty),
		Status:     model.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().
		Str("booking_id", booking.ID.String()).
		Str("user_id", userID.String()).
		Str("topic", booking.Topic).
		Msg("Booking created")
	return booking, nil
}

// Get fetches a booking by ID.
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// GetOwned fetches a booking and verifies it belongs to the given user.
func (s *BookingService) GetOwned(ctx context.Context, id, userID uuid.UUID) (*model.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

// ListForUser returns all bookings belonging to a user, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.BookingWithUser, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

// ListAll returns every booking with requester context, newest first.
func (s *BookingService) ListAll(ctx context.Context) ([]model.BookingWithUser, error) {
	return s.bookingRepo.ListAll(ctx)
}

// Review moves a PENDING booking to APPROVED or REJECTED. Review decisions
// on bookings in any other state are rejected.
func (s *BookingService) Review(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingStatusPending {
		return nil, ErrInvalidBookingState
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	booking.Status = status

	s.log.Info().
		Str("booking_id", id.String()).
		Str("status", string(status)).
		Msg("Booking reviewed")
	return booking, nil
}

// Delete removes a booking.
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.bookingRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if !deleted {
		return ErrBookingNotFound
	}
	return nil
}
