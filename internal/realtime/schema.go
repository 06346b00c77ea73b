package realtime

import "github.com/google/uuid"

// ─── Events (Server → Admin monitors) ───────────────────────────────

type EventType string

const (
	EventWarning    EventType = "proctor_warning"
	EventKick       EventType = "proctor_kick"
	EventSubmission EventType = "submission"
)

// Event is a monitoring notification pushed to connected admin clients.
type Event struct {
	Type         EventType `json:"event"`
	BookingID    uuid.UUID `json:"booking_id"`
	UserID       uuid.UUID `json:"user_id"`
	Detail       string    `json:"detail,omitempty"`
	WarningCount int       `json:"warning_count,omitempty"`
}
