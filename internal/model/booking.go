package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus enumerates the booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusApproved   BookingStatus = "APPROVED"
	BookingStatusRejected   BookingStatus = "REJECTED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusKicked     BookingStatus = "KICKED"
)

// Difficulty grades the requested question set.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsTerminal reports whether no further lifecycle transition is allowed.
// KICKED is terminal even though proctor events keep being recorded for it.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusRejected, BookingStatusCompleted, BookingStatusKicked:
		return true
	}
	return false
}

// CanStartSession reports whether a test session may be served for this status.
// IN_PROGRESS is included so that re-entering a running session is idempotent.
func (s BookingStatus) CanStartSession() bool {
	return s == BookingStatusApproved || s == BookingStatusInProgress
}

// CanTransitionTo reports whether the state machine permits moving to next.
// KICKED is reachable from any non-terminal state; everything else follows
// the forward-only lifecycle. No transition is reversible.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == BookingStatusKicked {
		return true
	}
	switch s {
	case BookingStatusPending:
		return next == BookingStatusApproved || next == BookingStatusRejected
	case BookingStatusApproved:
		return next == BookingStatusInProgress
	case BookingStatusInProgress:
		return next == BookingStatusCompleted
	}
	return false
}

// Booking represents one test attempt request and its lifecycle state.
type Booking struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	TestID          *uuid.UUID    `json:"test_id,omitempty"`
	Topic           string        `json:"topic"`
	Difficulty      Difficulty    `json:"difficulty"`
	Status          BookingStatus `json:"status"`
	ScheduledAt     *time.Time    `json:"scheduled_at,omitempty"`
	McqCount        int           `json:"mcq_count"`
	SubjectiveCount int           `json:"subjective_count"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// BookingWithUser decorates a booking with its owner, for admin listings.
type BookingWithUser struct {
	Booking
	UserName  string  `json:"user_name"`
	UserEmail string  `json:"user_email"`
	TestName  *string `json:"test_name,omitempty"`
}

// CreateBookingRequest is the payload for requesting a test attempt.
type CreateBookingRequest struct {
	Topic      string `json:"topic" binding:"required,min=2,max=255"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
}

// UpdateBookingStatusRequest is the admin payload for approving or rejecting.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}
