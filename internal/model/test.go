package model

import (
	"time"

	"github.com/google/uuid"
)

// Test is a named question set. TotalMarks is derived: it is recomputed as
// the sum of inserted question marks after generation.
type Test struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	DurationMin int       `json:"duration_min"`
	TotalMarks  int       `json:"total_marks"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// GenerateTestRequest is the admin payload for AI question generation.
// Topic and difficulty come from the booking itself.
type GenerateTestRequest struct {
	Name string `json:"name" binding:"omitempty,max=255"`
}

// GenerationSummary reports what the generation flow produced.
type GenerationSummary struct {
	TestID          uuid.UUID `json:"test_id"`
	BookingID       uuid.UUID `json:"booking_id"`
	TotalQuestions  int       `json:"total_questions"`
	McqCount        int       `json:"mcq_count"`
	SubjectiveCount int       `json:"subjective_count"`
}
