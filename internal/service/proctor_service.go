package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/realtime"
	"github.com/veritest/veritest-backend/internal/repository"
)

// ProctorService records client-reported suspicious events and enforces the
// warning threshold.
type ProctorService struct {
	eventRepo   *repository.ProctorEventRepository
	bookingRepo *repository.BookingRepository
	sessions    *SessionService
	broadcaster realtime.Broadcaster
	threshold   int
	log         zerolog.Logger
}

// NewProctorService creates a new ProctorService.
func NewProctorService(
	eventRepo *repository.ProctorEventRepository,
	bookingRepo *repository.BookingRepository,
	sessions *SessionService,
	broadcaster realtime.Broadcaster,
	threshold int,
	log zerolog.Logger,
) *ProctorService {
	return &ProctorService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		sessions:    sessions,
		broadcaster: broadcaster,
		threshold:   threshold,
		log:         log.With().Str("component", "proctor_service").Logger(),
	}
}

// LogEvent appends a proctoring event and applies the warning threshold.
// Events are always recorded, even for a booking that was already kicked;
// the kick itself fires exactly once. When the WARNING count reaches the
// threshold, the booking is kicked and a synthetic KICK event is appended
// after the triggering warning.
func (s *ProctorService) LogEvent(ctx context.Context, userID uuid.UUID, req *model.LogProctorEventRequest) (model.ProctorAction, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return "", ErrBookingNotFound
	}
	if booking.UserID != userID {
		return "", ErrNotBookingOwner
	}

	eventType := model.ProctorEventType(req.EventType)
	if err := s.eventRepo.Append(ctx, req.BookingID, eventType); err != nil {
		return "", fmt.Errorf("append proctor event: %w", err)
	}

	warningCount := 0
	if booking.Status != model.BookingStatusKicked && eventType == model.ProctorEventWarning {
		warningCount, err = s.eventRepo.CountWarnings(ctx, req.BookingID)
		if err != nil {
			return "", fmt.Errorf("count warnings: %w", err)
		}
	}

	outcome := resolveEscalation(booking.Status, eventType, warningCount, s.threshold)
	if outcome.kick {
		return s.kick(ctx, booking, warningCount)
	}
	if outcome.action == model.ActionKicked {
		// Already kicked: the log keeps growing but the state does not
		// change and no second kick is broadcast.
		return model.ActionKicked, nil
	}

	s.broadcaster.Broadcast(realtime.Event{
		Type:         realtime.EventWarning,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		Detail:       req.EventType,
		WarningCount: warningCount,
	})
	return outcome.action, nil
}

// ListEvents returns the full event log for a booking.
func (s *ProctorService) ListEvents(ctx context.Context, bookingID uuid.UUID) ([]model.ProctorEvent, error) {
	return s.eventRepo.ListByBooking(ctx, bookingID)
}

func (s *ProctorService) kick(ctx context.Context, booking *model.Booking, warningCount int) (model.ProctorAction, error) {
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, model.BookingStatusKicked); err != nil {
		return "", fmt.Errorf("kick booking: %w", err)
	}
	if err := s.eventRepo.Append(ctx, booking.ID, model.ProctorEventKick); err != nil {
		return "", fmt.Errorf("append kick event: %w", err)
	}

	s.sessions.InvalidateCache(ctx, booking.ID)
	s.broadcaster.Broadcast(realtime.Event{
		Type:         realtime.EventKick,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		Detail:       "warning threshold reached",
		WarningCount: warningCount,
	})

	s.log.Warn().
		Str("booking_id", booking.ID.String()).
		Int("warnings", warningCount).
		Msg("Booking kicked for repeated warnings")
	return model.ActionKicked, nil
}
