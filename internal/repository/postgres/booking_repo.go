package postgres

import (
	"context"
	"database/sql"

	"devevent/internal/database"
	"devevent/internal/domain"
)

type bookingRepository struct {
	conn database.Provider[*sql.DB]
}

// NewBookingRepository returns a BookingRepository that acquires its pool from conn on every call.
func NewBookingRepository(conn database.Provider[*sql.DB]) domain.BookingRepository {
	return &bookingRepository{
		conn: conn,
	}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if err := checkID(b.EventID); err != nil {
		return err
	}
	db, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (event_id, email)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err = db.QueryRowContext(ctx, query, b.EventID, b.Email).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapError(err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	db, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	b := &domain.Booking{}
	err = db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *bookingRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	if err := checkID(eventID); err != nil {
		return nil, err
	}
	db, err := r.conn.Get(ctx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b := &domain.Booking{}
		if err := rows.Scan(&b.ID, &b.EventID, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	if err := checkID(b.ID); err != nil {
		return err
	}
	if err := checkID(b.EventID); err != nil {
		return err
	}
	db, err := r.conn.Get(ctx)
	if err != nil {
		return err
	}
	query := `
		UPDATE bookings SET event_id = $1, email = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err = db.QueryRowContext(ctx, query, b.EventID, b.Email, b.ID).Scan(&b.UpdatedAt)
	return mapError(err)
}
