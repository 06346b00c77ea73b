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
	"github.com/veritest/veritest-backend/internal/realtime"
	"github.com/veritest/veritest-backend/internal/repository"
)

// ErrAlreadySubmitted is returned when a booking already has a result.
var ErrAlreadySubmitted = errors.New("this booking has already been submitted")

// GradingService grades submissions: MCQ deterministically, subjective
// answers through the AI grader, and persists the outcome atomically.
type GradingService struct {
	client       *genai.Client
	bookingRepo  *repository.BookingRepository
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	submissions  *repository.SubmissionRepository
	sessions     *SessionService
	broadcaster  realtime.Broadcaster
	log          zerolog.Logger
}

// NewGradingService creates a new GradingService.
func NewGradingService(
	client *genai.Client,
	bookingRepo *repository.BookingRepository,
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	submissions *repository.SubmissionRepository,
	sessions *SessionService,
	broadcaster realtime.Broadcaster,
	log zerolog.Logger,
) *GradingService {
	return &GradingService{
		client:       client,
		bookingRepo:  bookingRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		submissions:  submissions,
		sessions:     sessions,
		broadcaster:  broadcaster,
		log:          log.With().Str("component", "grading_service").Logger(),
	}
}

// Submit grades and persists a completed attempt. Answers, the result row,
// and the booking's COMPLETED transition are written in one transaction: a
// submission either fully lands or not at all. AI grader failures are
// non-fatal; affected subjective answers score zero and wait for admin
// review.
func (s *GradingService) Submit(ctx context.Context, bookingID, userID uuid.UUID, req *model.SubmitRequest) (*model.SubmitSummary, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if booking.Status == model.BookingStatusCompleted {
		return nil, ErrAlreadySubmitted
	}
	if booking.Status != model.BookingStatusInProgress {
		return nil, ErrInvalidBookingState
	}
	if booking.TestID == nil {
		return nil, ErrNoTestAttached
	}

	test, err := s.testRepo.GetByID(ctx, *booking.TestID)
	if err != nil {
		return nil, fmt.Errorf("load test: %w", err)
	}
	questions, err := s.questionRepo.ListByTest(ctx, test.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	answerByQID := make(map[uuid.UUID]string, len(req.Answers))
	for _, a := range req.Answers {
		answerByQID[a.QuestionID] = a.Answer
	}

	subjectiveScores := s.gradeSubjective(ctx, bookingID, questions, answerByQID)
	evaluation, answers, obtained := buildEvaluation(bookingID, questions, answerByQID, subjectiveScores)
	totalMarks := resolveTotalMarks(test.TotalMarks, questions)

	result := &model.Result{
		ID:             uuid.New(),
		BookingID:      bookingID,
		UserID:         userID,
		TestID:         test.ID,
		TotalQuestions: len(questions),
		TotalMarks:     totalMarks,
		MarksObtained:  obtained,
		Evaluation:     evaluation,
		EmotionReport:  s.emotionReport(ctx, bookingID, req.Emotions),
		Status:         model.ResultStatusPending,
		SubmittedAt:    time.Now(),
	}

	if err := s.submissions.SaveSubmission(ctx, bookingID, answers, result); err != nil {
		if errors.Is(err, repository.ErrDuplicateResult) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("save submission: %w", err)
	}

	s.sessions.InvalidateCache(ctx, bookingID)
	s.broadcaster.Broadcast(realtime.Event{
		Type:      realtime.EventSubmission,
		BookingID: bookingID,
		UserID:    userID,
		Detail:    fmt.Sprintf("scored %d/%d", obtained, totalMarks),
	})

	s.log.Info().
		Str("booking_id", bookingID.String()).
		Int("marks_obtained", obtained).
		Int("total_marks", totalMarks).
		Msg("Submission graded")

	return &model.SubmitSummary{
		TotalAnswers:  len(answers),
		MarksObtained: obtained,
		TotalMarks:    totalMarks,
	}, nil
}

// gradeSubjective runs the AI grader over all subjective answers in one
// batch. Any failure downgrades to zero scores rather than failing the
// submission.
func (s *GradingService) gradeSubjective(ctx context.Context, bookingID uuid.UUID, questions []model.Question, answerByQID map[uuid.UUID]string) map[uuid.UUID]int {
	pairs := buildSubjectivePairs(questions, answerByQID)
	if len(pairs) == 0 {
		return map[uuid.UUID]int{}
	}

	raw, err := s.client.GenerateContent(ctx, buildGradingPrompt(pairs))
	if err != nil {
		s.log.Error().Err(err).Str("booking_id", bookingID.String()).Msg("Subjective grading failed, scoring zeros pending review")
		raw = ""
	}
	return parseSubjectiveScores(raw, pairs)
}

// emotionReport produces a narrative over the submitted expression data.
// Failures are non-fatal; review works without the report.
func (s *GradingService) emotionReport(ctx context.Context, bookingID uuid.UUID, emotions map[string][]model.EmotionSample) string {
	if len(emotions) == 0 {
		return ""
	}

	report, err := s.client.GenerateContent(ctx, buildEmotionPrompt(emotions))
	if err != nil {
		s.log.Warn().Err(err).Str("booking_id", bookingID.String()).Msg("Emotion report generation failed")
		return ""
	}
	return report
}
