package model

import (
	"github.com/google/uuid"
)

// QuestionType distinguishes deterministic from AI-graded questions.
type QuestionType string

const (
	QuestionTypeMCQ        QuestionType = "MCQ"
	QuestionTypeSubjective QuestionType = "SUBJECTIVE"
)

// Default marks applied when the generator omits them.
const (
	DefaultMCQMarks        = 1
	DefaultSubjectiveMarks = 5
)

// Question is a single test question. Options and CorrectAnswer are only
// populated for MCQ; CorrectAnswer must never reach a test-taking client.
type Question struct {
	ID            uuid.UUID    `json:"id"`
	TestID        uuid.UUID    `json:"test_id"`
	Body          string       `json:"body"`
	Type          QuestionType `json:"type"`
	Marks         int          `json:"marks"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	OrderNum      int          `json:"order_num"`
}

// ClientQuestion is the client-safe view served during a session: the
// correct-answer field is stripped for every question type.
type ClientQuestion struct {
	ID      uuid.UUID    `json:"id"`
	Body    string       `json:"body"`
	Type    QuestionType `json:"type"`
	Marks   int          `json:"marks"`
	Options []string     `json:"options"`
}

// ClientView strips grading material from a question.
func (q Question) ClientView() ClientQuestion {
	opts := q.Options
	if opts == nil {
		opts = []string{}
	}
	return ClientQuestion{
		ID:      q.ID,
		Body:    q.Body,
		Type:    q.Type,
		Marks:   q.Marks,
		Options: opts,
	}
}
