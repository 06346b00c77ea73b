package model

import (
	"time"

	"github.com/google/uuid"
)

// ProctorEventType enumerates client-reported suspicious events plus the
// synthetic KICK appended by the monitor itself.
type ProctorEventType string

const (
	ProctorEventWarning        ProctorEventType = "WARNING"
	ProctorEventKick           ProctorEventType = "KICK"
	ProctorEventSuspiciousFace ProctorEventType = "SUSPICIOUS_FACE"
	ProctorEventMultipleFaces  ProctorEventType = "MULTIPLE_FACES"
)

// ProctorEvent is an append-only log entry; events are never updated or
// deleted and are used only for counting.
type ProctorEvent struct {
	ID        int64            `json:"id"`
	BookingID uuid.UUID        `json:"booking_id"`
	EventType ProctorEventType `json:"event_type"`
	CreatedAt time.Time        `json:"created_at"`
}

// ProctorAction is what the monitor reports back to the reporting client.
type ProctorAction string

const (
	ActionWarningLogged ProctorAction = "WARNING_LOGGED"
	ActionKicked        ProctorAction = "KICKED"
)

// LogProctorEventRequest is the client payload reporting a suspicious event.
// KICK is reserved for the monitor and cannot be reported directly.
type LogProctorEventRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	EventType string    `json:"event_type" binding:"required,oneof=WARNING SUSPICIOUS_FACE MULTIPLE_FACES"`
}
