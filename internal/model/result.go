package model

import (
	"time"

	"github.com/google/uuid"
)

// ResultStatus tracks the two-phase release: auto-graded results stay PENDING
// until an admin confirms them.
type ResultStatus string

const (
	ResultStatusPending   ResultStatus = "PENDING"
	ResultStatusConfirmed ResultStatus = "CONFIRMED"
)

// EvaluationItem is one per-question scored entry embedded in a Result.
// CorrectAnswer and IsCorrect are nil for subjective questions.
type EvaluationItem struct {
	Question      string  `json:"question"`
	UserAnswer    string  `json:"user_answer"`
	CorrectAnswer *string `json:"correct_answer"`
	IsCorrect     *bool   `json:"is_correct"`
	MarksAwarded  int     `json:"marks_awarded"`
}

// Result is the authoritative scored outcome for one booking. Exactly one
// Result exists per completed booking (enforced by a uniqueness constraint);
// it is created by grading and mutated only by the admin review workflow.
type Result struct {
	ID             uuid.UUID        `json:"id"`
	BookingID      uuid.UUID        `json:"booking_id"`
	UserID         uuid.UUID        `json:"user_id"`
	TestID         uuid.UUID        `json:"test_id"`
	TotalQuestions int              `json:"total_questions"`
	TotalMarks     int              `json:"total_marks"`
	MarksObtained  int              `json:"marks_obtained"`
	Evaluation     []EvaluationItem `json:"evaluation"`
	EmotionReport  string           `json:"emotion_report,omitempty"`
	Reviewed       bool             `json:"reviewed"`
	Status         ResultStatus     `json:"status"`
	SubmittedAt    time.Time        `json:"submitted_at"`
}

// ResultWithContext decorates a result with user and test info for listings.
type ResultWithContext struct {
	Result
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	TestName  string `json:"test_name"`
}

// ConfirmResultRequest is the admin payload finalizing a result. The supplied
// responses overwrite the stored evaluation; FinalMarks overrides the
// computed score unconditionally.
type ConfirmResultRequest struct {
	UpdatedResponses []EvaluationItem `json:"updated_responses" binding:"dive"`
	FinalMarks       *int             `json:"final_marks" binding:"required,min=0"`
}

// BookingResultSummary is the student-facing score view for one booking.
type BookingResultSummary struct {
	TestName       string        `json:"test_name"`
	TotalMarks     int           `json:"total_marks"`
	MarksObtained  int           `json:"marks_obtained"`
	Status         BookingStatus `json:"status"`
	SubmittedAt    time.Time     `json:"submitted_at"`
	TotalQuestions int           `json:"total_questions"`
}
