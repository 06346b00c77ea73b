package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/veritest/veritest-backend/internal/config"
	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/repository"
)

// Session errors.
var (
	ErrNoTestAttached  = errors.New("booking has no generated test attached")
	ErrTestNotStarted  = errors.New("the scheduled start time has not been reached")
	ErrAlreadyFinished = errors.New("this attempt has already finished")
)

// SessionService serves the proctored test-taking session.
type SessionService struct {
	rdb          *redis.Client
	bookingRepo  *repository.BookingRepository
	userRepo     *repository.UserRepository
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	rdb *redis.Client,
	bookingRepo *repository.BookingRepository,
	userRepo *repository.UserRepository,
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		rdb:          rdb,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// Start serves the session payload for a booking. The first call moves the
// booking from APPROVED to IN_PROGRESS and caches the payload; later calls
// during the attempt return the identical payload. Terminal bookings are
// refused.
func (s *SessionService) Start(ctx context.Context, bookingID, userID uuid.UUID) (*model.SessionPayload, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if !booking.Status.CanStartSession() {
		if booking.Status.IsTerminal() {
			return nil, ErrAlreadyFinished
		}
		return nil, ErrInvalidBookingState
	}
	if booking.TestID == nil {
		return nil, ErrNoTestAttached
	}
	if booking.ScheduledAt != nil && time.Now().Before(*booking.ScheduledAt) {
		return nil, ErrTestNotStarted
	}

	// Re-entry: serve the cached payload so the client sees the same
	// question order across reconnects. Cache misses fall back to the DB.
	if booking.Status == model.BookingStatusInProgress {
		if payload := s.cachedPayload(ctx, bookingID); payload != nil {
			return payload, nil
		}
	}

	payload, err := s.buildPayload(ctx, booking)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingStatusApproved {
		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, model.BookingStatusInProgress); err != nil {
			return nil, fmt.Errorf("mark in progress: %w", err)
		}
		payload.Booking.Status = model.BookingStatusInProgress
		s.log.Info().Str("booking_id", bookingID.String()).Msg("Test session started")
	}

	s.cachePayload(ctx, bookingID, payload)
	return payload, nil
}

func (s *SessionService) buildPayload(ctx context.Context, booking *model.Booking) (*model.SessionPayload, error) {
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	test, err := s.testRepo.GetByID(ctx, *booking.TestID)
	if err != nil {
		return nil, fmt.Errorf("load test: %w", err)
	}
	questions, err := s.questionRepo.ListByTest(ctx, test.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	clientQuestions := make([]model.ClientQuestion, 0, len(questions))
	for _, q := range questions {
		clientQuestions = append(clientQuestions, q.ClientView())
	}
	mcq, subjective := countByType(questions)

	return &model.SessionPayload{
		User: model.SessionUser{
			Name:   user.Name,
			Email:  user.Email,
			Degree: user.Degree,
		},
		Booking: model.SessionBooking{
			Topic:           booking.Topic,
			Difficulty:      booking.Difficulty,
			Status:          booking.Status,
			ScheduledAt:     booking.ScheduledAt,
			McqCount:        booking.McqCount,
			SubjectiveCount: booking.SubjectiveCount,
		},
		Test: model.SessionTest{
			Name:            test.Name,
			DurationMin:     test.DurationMin,
			TotalMarks:      test.TotalMarks,
			TotalQuestions:  len(clientQuestions),
			McqCount:        mcq,
			SubjectiveCount: subjective,
			Questions:       clientQuestions,
		},
	}, nil
}

func (s *SessionService) cachedPayload(ctx context.Context, bookingID uuid.UUID) *model.SessionPayload {
	raw, err := s.rdb.Get(ctx, config.CacheKey.SessionPayloadKey(bookingID.String())).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Session payload cache read failed")
		}
		return nil
	}

	var payload model.SessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.log.Warn().Err(err).Msg("Discarding corrupt cached session payload")
		return nil
	}
	return &payload
}

// cachePayload stores the payload for the attempt duration plus slack for
// reconnects. Cache failures are non-fatal; the DB remains authoritative.
func (s *SessionService) cachePayload(ctx context.Context, bookingID uuid.UUID, payload *model.SessionPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	ttl := time.Duration(payload.Test.DurationMin+30) * time.Minute
	key := config.CacheKey.SessionPayloadKey(bookingID.String())
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Session payload cache write failed")
	}
}

// InvalidateCache drops the cached payload for a booking. Called once an
// attempt reaches a terminal state.
func (s *SessionService) InvalidateCache(ctx context.Context, bookingID uuid.UUID) {
	key := config.CacheKey.SessionPayloadKey(bookingID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Session payload cache invalidation failed")
	}
}
