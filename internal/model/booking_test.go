package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanStartSession(t *testing.T) {
	tests := []struct {
		status BookingStatus
		want   bool
	}{
		{BookingStatusPending, false},
		{BookingStatusApproved, true},
		{BookingStatusRejected, false},
		{BookingStatusInProgress, true},
		{BookingStatusCompleted, false},
		{BookingStatusKicked, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.status.CanStartSession())
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusApproved.IsTerminal())
	assert.False(t, BookingStatusInProgress.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusKicked.IsTerminal())
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending approve", BookingStatusPending, BookingStatusApproved, true},
		{"pending reject", BookingStatusPending, BookingStatusRejected, true},
		{"pending straight to in progress", BookingStatusPending, BookingStatusInProgress, false},
		{"approved start", BookingStatusApproved, BookingStatusInProgress, true},
		{"approved cannot complete", BookingStatusApproved, BookingStatusCompleted, false},
		{"in progress complete", BookingStatusInProgress, BookingStatusCompleted, true},
		{"in progress cannot re-approve", BookingStatusInProgress, BookingStatusApproved, false},
		{"kick from pending", BookingStatusPending, BookingStatusKicked, true},
		{"kick from approved", BookingStatusApproved, BookingStatusKicked, true},
		{"kick from in progress", BookingStatusInProgress, BookingStatusKicked, true},
		{"kick is not re-triggerable", BookingStatusKicked, BookingStatusKicked, false},
		{"completed is final", BookingStatusCompleted, BookingStatusKicked, false},
		{"rejected is final", BookingStatusRejected, BookingStatusApproved, false},
		{"no reverse transition", BookingStatusCompleted, BookingStatusInProgress, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestQuestion_ClientView_StripsCorrectAnswer(t *testing.T) {
	q := Question{
		Body:          "What is the time complexity of binary search?",
		Type:          QuestionTypeMCQ,
		Marks:         1,
		Options:       []string{"O(1)", "O(log n)", "O(n)", "O(n log n)"},
		CorrectAnswer: "O(log n)",
	}

	view := q.ClientView()
	assert.Equal(t, q.Body, view.Body)
	assert.Equal(t, q.Options, view.Options)

	subj := Question{Body: "Tell me about yourself.", Type: QuestionTypeSubjective, Marks: 5}
	subjView := subj.ClientView()
	assert.NotNil(t, subjView.Options)
	assert.Empty(t, subjView.Options)
}
