package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/veritest/veritest-backend/internal/mailer"
	"github.com/veritest/veritest-backend/internal/model"
	"github.com/veritest/veritest-backend/internal/repository"
)

// Result errors.
var (
	ErrResultNotFound    = errors.New("result not found")
	ErrResultNotReviewed = errors.New("result has not been reviewed yet")
)

// ResultService exposes graded results to students and drives the admin
// review workflow.
type ResultService struct {
	resultRepo   *repository.ResultRepository
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	userRepo     *repository.UserRepository
	testRepo     *repository.TestRepository
	notifier     mailer.Notifier
	log          zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(
	resultRepo *repository.ResultRepository,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	userRepo *repository.UserRepository,
	testRepo *repository.TestRepository,
	notifier mailer.Notifier,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		resultRepo:   resultRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		userRepo:     userRepo,
		testRepo:     testRepo,
		notifier:     notifier,
		log:          log.With().Str("component", "result_service").Logger(),
	}
}

// ListConfirmedForUser returns a student's reviewed results only. Unreviewed
// scores stay invisible until an admin confirms them.
func (s *ResultService) ListConfirmedForUser(ctx context.Context, userID uuid.UUID) ([]model.ResultWithContext, error) {
	return s.resultRepo.ListConfirmedByUser(ctx, userID)
}

// GetForUser fetches one result for its owner. Results that are not yet
// reviewed are withheld.
func (s *ResultService) GetForUser(ctx context.Context, bookingID, userID uuid.UUID) (*model.Result, error) {
	result, err := s.getByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if result.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if !result.Reviewed {
		return nil, ErrResultNotReviewed
	}
	return result, nil
}

// GetBookingSummary returns the compact score view for one of the student's
// completed bookings. Like GetForUser it requires a reviewed result.
func (s *ResultService) GetBookingSummary(ctx context.Context, bookingID, userID uuid.UUID) (*model.BookingResultSummary, error) {
	result, err := s.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	test, err := s.testRepo.GetByID(ctx, result.TestID)
	if err != nil {
		return nil, fmt.Errorf("load test: %w", err)
	}

	return &model.BookingResultSummary{
		TestName:       test.Name,
		TotalMarks:     result.TotalMarks,
		MarksObtained:  result.MarksObtained,
		Status:         model.BookingStatusCompleted,
		SubmittedAt:    result.SubmittedAt,
		TotalQuestions: result.TotalQuestions,
	}, nil
}

// GetEmotionReport returns the proctoring emotion summary for the student's
// own booking. The same reviewed gate as GetForUser applies.
func (s *ResultService) GetEmotionReport(ctx context.Context, bookingID, userID uuid.UUID) (string, error) {
	result, err := s.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return "", err
	}
	return result.EmotionReport, nil
}

// ListPending returns all unreviewed results for the admin review queue.
func (s *ResultService) ListPending(ctx context.Context) ([]model.ResultWithContext, error) {
	return s.resultRepo.ListPending(ctx)
}

// GetByID fetches a result for admin review. Results whose evaluation is
// missing (from a historic write or a partial migration) get it rebuilt from
// the stored answers before being returned.
func (s *ResultService) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	result, err := s.resultRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}

	if len(result.Evaluation) == 0 {
		if err := s.backfillEvaluation(ctx, result); err != nil {
			s.log.Warn().Err(err).Str("result_id", id.String()).Msg("Evaluation backfill failed")
		}
	}
	return result, nil
}

// Confirm finalizes a result: the admin's updated evaluation replaces the
// stored one, final marks override the computed score, and the student is
// notified by email. Mail failure does not undo the confirmation.
func (s *ResultService) Confirm(ctx context.Context, id uuid.UUID, req *model.ConfirmResultRequest) (*model.Result, error) {
	result, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	evaluation := result.Evaluation
	if len(req.UpdatedResponses) > 0 {
		evaluation = req.UpdatedResponses
	}
	if err := s.resultRepo.Confirm(ctx, id, evaluation, *req.FinalMarks); err != nil {
		return nil, fmt.Errorf("confirm result: %w", err)
	}

	result.Evaluation = evaluation
	result.MarksObtained = *req.FinalMarks
	result.Reviewed = true
	result.Status = model.ResultStatusConfirmed

	s.notifyStudent(ctx, result)

	s.log.Info().
		Str("result_id", id.String()).
		Int("final_marks", *req.FinalMarks).
		Msg("Result confirmed")
	return result, nil
}

// Delete removes a result.
func (s *ResultService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.resultRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if !deleted {
		return ErrResultNotFound
	}
	return nil
}

func (s *ResultService) getByBooking(ctx context.Context, bookingID uuid.UUID) (*model.Result, error) {
	result, err := s.resultRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	return result, nil
}

// backfillEvaluation rebuilds the evaluation from stored answers and
// questions, preserving paper order, then persists it.
func (s *ResultService) backfillEvaluation(ctx context.Context, result *model.Result) error {
	questions, err := s.questionRepo.ListByTest(ctx, result.TestID)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	answers, err := s.answerRepo.ListByBooking(ctx, result.BookingID)
	if err != nil {
		return fmt.Errorf("load answers: %w", err)
	}

	marksByQID := make(map[uuid.UUID]int, len(answers))
	answerByQID := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		marksByQID[a.QuestionID] = a.MarksObtained
		answerByQID[a.QuestionID] = a.Answer
	}

	evaluation := make([]model.EvaluationItem, 0, len(questions))
	for _, q := range questions {
		item := model.EvaluationItem{
			Question:     q.Body,
			UserAnswer:   answerByQID[q.ID],
			MarksAwarded: marksByQID[q.ID],
		}
		if q.Type == model.QuestionTypeMCQ {
			correctAnswer := q.CorrectAnswer
			correct := marksByQID[q.ID] > 0
			item.CorrectAnswer = &correctAnswer
			item.IsCorrect = &correct
		}
		evaluation = append(evaluation, item)
	}

	if err := s.resultRepo.UpdateEvaluation(ctx, result.ID, evaluation); err != nil {
		return fmt.Errorf("persist evaluation: %w", err)
	}
	result.Evaluation = evaluation
	return nil
}

func (s *ResultService) notifyStudent(ctx context.Context, result *model.Result) {
	user, err := s.userRepo.GetByID(ctx, result.UserID)
	if err != nil {
		s.log.Error().Err(err).Str("result_id", result.ID.String()).Msg("Failed to load student for result notification")
		return
	}
	test, err := s.testRepo.GetByID(ctx, result.TestID)
	if err != nil {
		s.log.Error().Err(err).Str("result_id", result.ID.String()).Msg("Failed to load test for result notification")
		return
	}

	err = s.notifier.SendResult(ctx, user.Email, mailer.ResultSummary{
		TestName:       test.Name,
		TotalQuestions: result.TotalQuestions,
		TotalMarks:     result.TotalMarks,
		MarksObtained:  result.MarksObtained,
	})
	if err != nil {
		s.log.Error().Err(err).Str("result_id", result.ID.String()).Msg("Result notification email failed")
	}
}
