package model

import (
	"time"

	"github.com/google/uuid"
)

// Answer is one submitted answer per (booking, question) pair, written once
// during the submission pass with its awarded marks already resolved.
type Answer struct {
	ID            uuid.UUID `json:"id"`
	BookingID     uuid.UUID `json:"booking_id"`
	QuestionID    uuid.UUID `json:"question_id"`
	Answer        string    `json:"answer"`
	MarksObtained int       `json:"marks_obtained"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmittedAnswer is a single client-supplied answer.
type SubmittedAnswer struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     string    `json:"answer"`
}

// EmotionSample is one client-reported webcam expression reading.
type EmotionSample struct {
	Time        int64              `json:"time"`
	Expressions map[string]float64 `json:"expressions"`
}

// SubmitRequest is the payload for submitting a completed test. Emotions maps
// question id to the expression timeline captured while it was on screen.
type SubmitRequest struct {
	Answers  []SubmittedAnswer          `json:"answers" binding:"dive"`
	Emotions map[string][]EmotionSample `json:"emotions"`
}

// SubmitSummary reports the outcome of a graded submission.
type SubmitSummary struct {
	TotalAnswers  int `json:"total_answers"`
	MarksObtained int `json:"marks_obtained"`
	TotalMarks    int `json:"total_marks"`
}
