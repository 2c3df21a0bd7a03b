package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devevent/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService returns an EventService that normalizes events before
// every write to eventRepo.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	normalized, err := domain.NormalizeEvent(event, nil)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, normalized); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return normalized, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, patch *domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookupError("get event", err)
	}
	normalized, err := domain.NormalizeEvent(patch.Apply(prev), prev)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, normalized); err != nil {
		return nil, lookupError("update event", err)
	}
	return normalized, nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookupError("get event", err)
	}
	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, lookupError("get event by slug", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// lookupError returns domain.ErrNotFound as is and wraps everything else.
// A malformed id cannot match a stored document, so it is reported as not found.
func lookupError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
