package domain

import (
	"context"
	"strings"
	"time"
)

// Booking registers one email address for one event.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id" validate:"required"`
	Email     string    `json:"email" validate:"required,booking_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking returns an unsaved Booking. The repository assigns ID and
// timestamps on create.
func NewBooking(eventID, email string) *Booking {
	return &Booking{EventID: eventID, Email: email}
}

// BookingPatch holds the fields of a booking update. Nil fields are left unchanged.
type BookingPatch struct {
	EventID *string
	Email   *string
}

// Apply returns a copy of b with the patch applied.
func (p *BookingPatch) Apply(b *Booking) *Booking {
	out := *b
	setString(&out.EventID, p.EventID)
	setString(&out.Email, p.Email)
	return &out
}

// NormalizeBooking lowercases and trims the email and checks the booking's
// structure. It does not check that the event exists; see EventChanged.
func NormalizeBooking(next *Booking) (*Booking, error) {
	out := *next
	out.Email = strings.ToLower(strings.TrimSpace(out.Email))
	if err := validateStruct(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EventChanged reports whether next points at a different event than prev,
// which is when the event reference has to be checked again.
func EventChanged(next, prev *Booking) bool {
	return prev == nil || next.EventID != prev.EventID
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
	Update(ctx context.Context, booking *Booking) error
}

// BookingService defines booking operations.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, patch *BookingPatch) (*Booking, error)
	ListBookingsByEvent(ctx context.Context, eventID string) ([]*Booking, error)
}
