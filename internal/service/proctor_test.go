package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veritest/veritest-backend/internal/model"
)

func TestResolveEscalation(t *testing.T) {
	const threshold = 3

	tests := []struct {
		name       string
		status     model.BookingStatus
		eventType  model.ProctorEventType
		warnings   int
		wantAction model.ProctorAction
		wantKick   bool
	}{
		{"first warning stays logged", model.BookingStatusInProgress, model.ProctorEventWarning, 1, model.ActionWarningLogged, false},
		{"second warning stays logged", model.BookingStatusInProgress, model.ProctorEventWarning, 2, model.ActionWarningLogged, false},
		{"third warning kicks", model.BookingStatusInProgress, model.ProctorEventWarning, 3, model.ActionKicked, true},
		{"count past threshold still kicks while in progress", model.BookingStatusInProgress, model.ProctorEventWarning, 5, model.ActionKicked, true},
		{"warning after kick reports kicked without re-kick", model.BookingStatusKicked, model.ProctorEventWarning, 4, model.ActionKicked, false},
		{"non-warning after kick reports kicked", model.BookingStatusKicked, model.ProctorEventSuspiciousFace, 0, model.ActionKicked, false},
		{"non-warning event never escalates", model.BookingStatusInProgress, model.ProctorEventSuspiciousFace, 0, model.ActionWarningLogged, false},
		{"completed booking cannot be kicked", model.BookingStatusCompleted, model.ProctorEventWarning, 3, model.ActionWarningLogged, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveEscalation(tt.status, tt.eventType, tt.warnings, threshold)
			assert.Equal(t, tt.wantAction, got.action)
			assert.Equal(t, tt.wantKick, got.kick)
		})
	}
}

// A stream of warnings past the threshold must trigger the kick exactly once.
func TestEscalationKicksExactlyOnce(t *testing.T) {
	status := model.BookingStatusInProgress
	kicks := 0

	for warnings := 1; warnings <= 5; warnings++ {
		out := resolveEscalation(status, model.ProctorEventWarning, warnings, 3)
		if out.kick {
			kicks++
			status = model.BookingStatusKicked
		}
		if warnings >= 3 {
			assert.Equal(t, model.ActionKicked, out.action, "warning %d", warnings)
		}
	}

	assert.Equal(t, 1, kicks)
	assert.Equal(t, model.BookingStatusKicked, status)
}
