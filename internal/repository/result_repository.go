package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veritest/veritest-backend/internal/model"
)

// ResultRepository handles scored result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `id, booking_id, user_id, test_id, total_questions, total_marks,
	marks_obtained, evaluation, emotion_report, reviewed, status, submitted_at`

func scanResult(row interface{ Scan(...any) error }) (*model.Result, error) {
	res := &model.Result{}
	err := row.Scan(&res.ID, &res.BookingID, &res.UserID, &res.TestID,
		&res.TotalQuestions, &res.TotalMarks, &res.MarksObtained,
		&res.Evaluation, &res.EmotionReport, &res.Reviewed, &res.Status, &res.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByID retrieves a result by primary key.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = $1`, id))
}

// GetByBookingID retrieves the single result tied to a booking.
func (r *ResultRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE booking_id = $1`, bookingID))
}

// ListConfirmedByUser retrieves a user's reviewed results, newest first.
// Unreviewed results are invisible to students by design.
func (r *ResultRepository) ListConfirmedByUser(ctx context.Context, userID uuid.UUID) ([]model.ResultWithContext, error) {
	return r.listWithContext(ctx,
		`WHERE r.user_id = $1 AND r.reviewed = TRUE`, userID)
}

// ListPending retrieves all unreviewed results for the admin review queue.
func (r *ResultRepository) ListPending(ctx context.Context) ([]model.ResultWithContext, error) {
	return r.listWithContext(ctx, `WHERE r.reviewed = FALSE`)
}

func (r *ResultRepository) listWithContext(ctx context.Context, where string, args ...any) ([]model.ResultWithContext, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.booking_id, r.user_id, r.test_id, r.total_questions, r.total_marks,
		        r.marks_obtained, r.evaluation, r.emotion_report, r.reviewed, r.status,
		        r.submitted_at, u.name, u.email, t.name
		 FROM results r
		 JOIN users u ON r.user_id = u.id
		 JOIN tests t ON r.test_id = t.id
		 `+where+`
		 ORDER BY r.submitted_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ResultWithContext
	for rows.Next() {
		var res model.ResultWithContext
		if err := rows.Scan(&res.ID, &res.BookingID, &res.UserID, &res.TestID,
			&res.TotalQuestions, &res.TotalMarks, &res.MarksObtained,
			&res.Evaluation, &res.EmotionReport, &res.Reviewed, &res.Status,
			&res.SubmittedAt, &res.UserName, &res.UserEmail, &res.TestName); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// UpdateEvaluation backfills a rebuilt evaluation list without touching
// review state. Used when an older result is missing its breakdown.
func (r *ResultRepository) UpdateEvaluation(ctx context.Context, id uuid.UUID, evaluation []model.EvaluationItem) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE results SET evaluation = $1 WHERE id = $2`, evaluation, id)
	return err
}

// Confirm finalizes a result: admin-edited evaluation, overridden marks,
// reviewed flag, CONFIRMED status.
func (r *ResultRepository) Confirm(ctx context.Context, id uuid.UUID, evaluation []model.EvaluationItem, finalMarks int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE results
		 SET evaluation = $1, marks_obtained = $2, reviewed = TRUE, status = $3
		 WHERE id = $4`,
		evaluation, finalMarks, model.ResultStatusConfirmed, id)
	return err
}

// Delete removes a result.
func (r *ResultRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
