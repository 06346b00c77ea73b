package model

import "time"

// SessionUser is the identity block echoed back to the test-taking client.
type SessionUser struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Degree string `json:"degree,omitempty"`
}

// SessionBooking is the booking block of the session payload.
type SessionBooking struct {
	Topic           string        `json:"topic"`
	Difficulty      Difficulty    `json:"difficulty"`
	Status          BookingStatus `json:"status"`
	ScheduledAt     *time.Time    `json:"scheduled_at,omitempty"`
	McqCount        int           `json:"mcq_count"`
	SubjectiveCount int           `json:"subjective_count"`
}

// SessionTest is the test block of the session payload, with client-safe
// questions only.
type SessionTest struct {
	Name            string           `json:"name"`
	DurationMin     int              `json:"duration_min"`
	TotalMarks      int              `json:"total_marks"`
	TotalQuestions  int              `json:"total_questions"`
	McqCount        int              `json:"mcq_count"`
	SubjectiveCount int              `json:"subjective_count"`
	Questions       []ClientQuestion `json:"questions"`
}

// SessionPayload is the full view served by startSession. Re-invoking the
// start endpoint during an attempt returns an identical payload.
type SessionPayload struct {
	User    SessionUser    `json:"user"`
	Booking SessionBooking `json:"booking"`
	Test    SessionTest    `json:"test"`
}
