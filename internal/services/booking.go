package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devevent/internal/domain"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewBookingService returns a BookingService. Bookings are checked against
// eventRepo whenever their event reference is set or changed, and a
// confirmation is sent through emailService after each new booking.
func NewBookingService(
	bookingRepo domain.BookingRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := domain.NormalizeBooking(domain.NewBooking(eventID, email))
	if err != nil {
		return nil, err
	}
	event, err := s.referencedEvent(ctx, booking.EventID)
	if err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.sendConfirmation(ctx, booking, event)
	return booking, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, patch *domain.BookingPatch) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, lookupError("get booking", err)
	}
	booking, err := domain.NormalizeBooking(patch.Apply(prev))
	if err != nil {
		return nil, err
	}
	if domain.EventChanged(booking, prev) {
		if _, err := s.referencedEvent(ctx, booking.EventID); err != nil {
			return nil, err
		}
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, lookupError("update booking", err)
	}
	return booking, nil
}

func (s *bookingService) ListBookingsByEvent(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, lookupError("get event", err)
	}
	bookings, err := s.bookingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

// referencedEvent loads the event a booking points at. Every failure is a
// validation failure of the booking; store errors are kept as the cause.
func (s *bookingService) referencedEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	switch {
	case err == nil:
		return event, nil
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.NewValidationError("referenced event does not exist")
	default:
		return nil, &domain.ValidationError{
			Problems: []string{"invalid event id or store error"},
			Cause:    err,
		}
	}
}

// sendConfirmation mails the booking confirmation. A failed send is logged;
// the booking stands.
func (s *bookingService) sendConfirmation(ctx context.Context, booking *domain.Booking, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventSlug:  event.Slug,
		Date:       event.Date,
		Time:       event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
		Mode:       event.Mode,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation not sent",
			"booking_id", booking.ID,
			"event_id", booking.EventID,
			"error", err,
		)
	}
}
