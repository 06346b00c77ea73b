package service

import "github.com/veritest/veritest-backend/internal/model"

// escalationOutcome is the decision taken after a proctor event is recorded.
type escalationOutcome struct {
	action model.ProctorAction
	kick   bool
}

// resolveEscalation decides what a freshly recorded event does to a booking.
// warningCount is the WARNING total including the event just recorded. A
// booking that is already KICKED keeps reporting KICKED without a second
// kick; the kick fires only on a WARNING that reaches the threshold while
// the state machine still allows the transition.
func resolveEscalation(status model.BookingStatus, eventType model.ProctorEventType, warningCount, threshold int) escalationOutcome {
	if status == model.BookingStatusKicked {
		return escalationOutcome{action: model.ActionKicked}
	}
	if eventType == model.ProctorEventWarning &&
		warningCount >= threshold &&
		status.CanTransitionTo(model.BookingStatusKicked) {
		return escalationOutcome{action: model.ActionKicked, kick: true}
	}
	return escalationOutcome{action: model.ActionWarningLogged}
}
