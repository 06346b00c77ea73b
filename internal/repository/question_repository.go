package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veritest/veritest-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// InsertMany bulk-inserts a generated question set via COPY.
func (r *QuestionRepository) InsertMany(ctx context.Context, questions []model.Question) error {
	rows := make([][]interface{}, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		q.OrderNum = i
		rows = append(rows, []interface{}{
			q.ID, q.TestID, q.Body, q.Type, q.Marks, opts, q.CorrectAnswer, q.OrderNum,
		})
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"questions"},
		[]string{"id", "test_id", "body", "type", "marks", "options", "correct_answer", "order_num"},
		pgx.CopyFromRows(rows),
	)
	return err
}

// ListByTest retrieves a test's questions in insertion order, grading
// material included. Callers serving test-takers must use ClientView.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, body, type, marks, options, correct_answer, order_num
		 FROM questions
		 WHERE test_id = $1
		 ORDER BY order_num`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var opts []byte
		if err := rows.Scan(&q.ID, &q.TestID, &q.Body, &q.Type, &q.Marks, &opts, &q.CorrectAnswer, &q.OrderNum); err != nil {
			return nil, err
		}
		if len(opts) > 0 {
			if err := json.Unmarshal(opts, &q.Options); err != nil {
				return nil, fmt.Errorf("unmarshal options: %w", err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
