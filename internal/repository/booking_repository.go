package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veritest/veritest-backend/internal/model"
)

// BookingRepository handles booking data access.
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, user_id, test_id, topic, difficulty, status, scheduled_at,
	mcq_count, subjective_count, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(&b.ID, &b.UserID, &b.TestID, &b.Topic, &b.Difficulty, &b.Status,
		&b.ScheduledAt, &b.McqCount, &b.SubjectiveCount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a new PENDING booking.
func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO bookings (user_id, topic, difficulty, status, scheduled_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		b.UserID, b.Topic, b.Difficulty, b.Status, b.ScheduledAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID retrieves a booking by primary key.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// HasPendingForUser reports whether the user already has a PENDING booking.
func (r *BookingRepository) HasPendingForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE user_id = $1 AND status = $2)`,
		userID, model.BookingStatusPending).Scan(&exists)
	return exists, err
}

// ListByUser retrieves a user's bookings, newest first, with test names.
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.BookingWithUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.`+bookingColumnsAliased("b")+`, u.name, u.email, t.name
		 FROM bookings b
		 JOIN users u ON b.user_id = u.id
		 LEFT JOIN tests t ON b.test_id = t.id
		 WHERE b.user_id = $1
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingsWithUser(rows)
}

// ListAll retrieves every booking with owner info, newest first.
func (r *BookingRepository) ListAll(ctx context.Context) ([]model.BookingWithUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.`+bookingColumnsAliased("b")+`, u.name, u.email, t.name
		 FROM bookings b
		 JOIN users u ON b.user_id = u.id
		 LEFT JOIN tests t ON b.test_id = t.id
		 ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingsWithUser(rows)
}

// UpdateStatus moves a booking to the given lifecycle state.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

// AttachTest links a generated test to its booking, records the derived
// question counts, and advances the booking to APPROVED in one statement.
func (r *BookingRepository) AttachTest(ctx context.Context, bookingID, testID uuid.UUID, mcqCount, subjectiveCount int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bookings
		 SET test_id = $1, mcq_count = $2, subjective_count = $3,
		     status = $4, updated_at = NOW()
		 WHERE id = $5`,
		testID, mcqCount, subjectiveCount, model.BookingStatusApproved, bookingID)
	return err
}

// Delete removes a booking.
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type pgxRows interface {
	Next() bool
	Scan(...any) error
	Err() error
}

func collectBookingsWithUser(rows pgxRows) ([]model.BookingWithUser, error) {
	var out []model.BookingWithUser
	for rows.Next() {
		var b model.BookingWithUser
		if err := rows.Scan(&b.ID, &b.UserID, &b.TestID, &b.Topic, &b.Difficulty,
			&b.Status, &b.ScheduledAt, &b.McqCount, &b.SubjectiveCount,
			&b.CreatedAt, &b.UpdatedAt, &b.UserName, &b.UserEmail, &b.TestName); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func bookingColumnsAliased(alias string) string {
	return `id, ` + alias + `.user_id, ` + alias + `.test_id, ` + alias + `.topic, ` +
		alias + `.difficulty, ` + alias + `.status, ` + alias + `.scheduled_at, ` +
		alias + `.mcq_count, ` + alias + `.subjective_count, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
