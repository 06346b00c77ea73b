package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/veritest/veritest-backend/internal/genai"
	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/repository"
)

// Generation errors.
var (
	ErrGenerationFailed = errors.New("question generation failed")
	ErrTestAlreadySet   = errors.New("booking already has a generated test")
)

// GenerationService drives AI question generation for an approved booking.
type GenerationService struct {
	client       *genai.Client
	bookingRepo  *repository.BookingRepository
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	log          zerolog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	client *genai.Client,
	bookingRepo *repository.BookingRepository,
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		client:       client,
		bookingRepo:  bookingRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		log:          log.With().Str("component", "generation_service").Logger(),
	}
}

// GenerateForBooking produces a question paper for a PENDING booking,
// persists the test, and attaches it while approving the booking. If the
// generator fails or returns malformed output, nothing is persisted and the
// booking stays untouched.
func (s *GenerationService) GenerateForBooking(ctx context.Context, bookingID, adminID uuid.UUID, req *model.GenerateTestRequest) (*model.GenerationSummary, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if booking.TestID != nil {
		return nil, ErrTestAlreadySet
	}
	if booking.Status != model.BookingStatusPending {
		return nil, ErrInvalidBookingState
	}

	prompt := buildGenerationPrompt(booking.Topic, booking.Difficulty)
	raw, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		s.log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("Generative AI call failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	questions, err := parseGeneratedQuestions(genai.ExtractJSON(raw))
	if err != nil {
		s.log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("Generated paper failed validation")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s (%s) - %s", booking.Topic, booking.Difficulty, time.Now().Format("2006-01-02"))
	}

	test := &model.Test{
		ID:          uuid.New(),
		Name:        name,
		Description: fmt.Sprintf("Generated paper on %s, %s difficulty", booking.Topic, booking.Difficulty),
		DurationMin: defaultTestDurationMin,
		TotalMarks:  sumMarks(questions),
		CreatedBy:   adminID,
	}
	if err := s.testRepo.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}

	for i := range questions {
		questions[i].TestID = test.ID
	}
	if err := s.questionRepo.InsertMany(ctx, questions); err != nil {
		return nil, fmt.Errorf("insert questions: %w", err)
	}

	mcq, subjective := countByType(questions)
	if err := s.bookingRepo.AttachTest(ctx, bookingID, test.ID, mcq, subjective); err != nil {
		return nil, fmt.Errorf("attach test to booking: %w", err)
	}

	s.log.Info().
		Str("booking_id", bookingID.String()).
		Str("test_id", test.ID.String()).
		Int("questions", len(questions)).
		Msg("Question paper generated")

	return &model.GenerationSummary{
		TestID:          test.ID,
		BookingID:       bookingID,
		TotalQuestions:  len(questions),
		McqCount:        mcq,
		SubjectiveCount: subjective,
	}, nil
}
