package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veritest/veritest-backend/internal/model"
)

// ProctorEventRepository handles the append-only proctoring event log.
type ProctorEventRepository struct {
	pool *pgxpool.Pool
}

// NewProctorEventRepository creates a new ProctorEventRepository.
func NewProctorEventRepository(pool *pgxpool.Pool) *ProctorEventRepository {
	return &ProctorEventRepository{pool: pool}
}

// Append records an event. Events are never updated or deleted.
func (r *ProctorEventRepository) Append(ctx context.Context, bookingID uuid.UUID, eventType model.ProctorEventType) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO proctor_events (booking_id, event_type) VALUES ($1, $2)`,
		bookingID, eventType)
	return err
}

// CountWarnings recomputes the WARNING total for a booking from the full
// event log. Volumes per booking are small, so a recount per call is fine.
func (r *ProctorEventRepository) CountWarnings(ctx context.Context, bookingID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM proctor_events WHERE booking_id = $1 AND event_type = $2`,
		bookingID, model.ProctorEventWarning).Scan(&n)
	return n, err
}

// ListByBooking retrieves a booking's event log in insertion order.
func (r *ProctorEventRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]model.ProctorEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, booking_id, event_type, created_at
		 FROM proctor_events
		 WHERE booking_id = $1
		 ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ProctorEvent
	for rows.Next() {
		var e model.ProctorEvent
		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
