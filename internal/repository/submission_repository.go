package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veritest/veritest-backend/internal/model"
)

// ErrDuplicateResult signals that a Result already exists for the booking:
// a concurrent or repeated submission lost the race.
var ErrDuplicateResult = errors.New("result already exists for this booking")

// SubmissionRepository persists a graded submission as a single unit of work:
// answers, the Result, and the booking's COMPLETED transition either all land
// or none do, so a crash mid-submit leaves the booking resubmittable.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// SaveSubmission runs the grading persistence transaction. The UNIQUE
// constraint on results.booking_id turns a double-submit race into
// ErrDuplicateResult for the losing request.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, bookingID uuid.UUID, answers []model.Answer, result *model.Result) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]interface{}, 0, len(answers))
	for i := range answers {
		a := &answers[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		rows = append(rows, []interface{}{
			a.ID, a.BookingID, a.QuestionID, a.Answer, a.MarksObtained,
		})
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"answers"},
		[]string{"id", "booking_id", "question_id", "answer", "marks_obtained"},
		pgx.CopyFromRows(rows),
	); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateResult
		}
		return fmt.Errorf("insert answers: %w", err)
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO results (booking_id, user_id, test_id, total_questions, total_marks,
		                      marks_obtained, evaluation, emotion_report, reviewed, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		result.BookingID, result.UserID, result.TestID, result.TotalQuestions,
		result.TotalMarks, result.MarksObtained, result.Evaluation,
		result.EmotionReport, result.Reviewed, result.Status, result.SubmittedAt,
	).Scan(&result.ID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateResult
		}
		return fmt.Errorf("insert result: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`,
		model.BookingStatusCompleted, bookingID,
	); err != nil {
		return fmt.Errorf("complete booking: %w", err)
	}

	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
