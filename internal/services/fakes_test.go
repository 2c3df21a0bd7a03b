package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"devevent/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository that enforces slug uniqueness
// like the stores' unique index.
type fakeEventRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Event
	nextID  int
	err     error // if set, every call returns this error
	creates int
	updates int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) slugTaken(slug, exceptID string) bool {
	if slug == "" {
		return false
	}
	for id, e := range f.byID {
		if id != exceptID && e.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.slugTaken(e.Slug, "") {
		return fmt.Errorf("%w: events_slug_key", domain.ErrDuplicateKey)
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	e.CreatedAt = time.Date(2025, 1, 1, 0, 0, f.nextID, 0, time.UTC)
	e.UpdatedAt = e.CreatedAt
	f.nextID++
	f.creates++
	f.byID[e.ID] = e.Clone()
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(_ context.Context, slug string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.Slug == slug {
			return e.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	if f.slugTaken(e.Slug, e.ID) {
		return fmt.Errorf("%w: events_slug_key", domain.ErrDuplicateKey)
	}
	f.updates++
	f.byID[e.ID] = e.Clone()
	return nil
}

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Booking
	nextID int
	err    error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*domain.Booking), nextID: 1}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	b.ID = fmt.Sprintf("bk-%d", f.nextID)
	f.nextID++
	c := *b
	f.byID[b.ID] = &c
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.byID[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBookingRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Booking
	for _, b := range f.byID {
		if b.EventID == eventID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *b
	f.byID[b.ID] = &c
	return nil
}

// fakeEmailService records confirmations.
type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendBookingConfirmation(_ context.Context, data *domain.BookingConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validEvent() *domain.Event {
	return &domain.Event{
		Title:       "React Summit 2024",
		Description: "...",
		Overview:    "...",
		Image:       "/x.png",
		Venue:       "Hall A",
		Location:    "Amsterdam",
		Date:        "2025-06-14",
		Time:        "09:00",
		Mode:        domain.ModeOffline,
		Audience:    "devs",
		Agenda:      []string{"intro"},
		Organizer:   "Org",
		Tags:        []string{"react"},
	}
}

func strPtr(s string) *string { return &s }
