package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// EventMode is how attendees take part in an event.
type EventMode string

const (
	ModeOnline  EventMode = "online"
	ModeOffline EventMode = "offline"
	ModeHybrid  EventMode = "hybrid"
)

// Event represents one hackathon, meetup or conference.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,utf16min=3"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description" validate:"required"`
	Overview    string    `json:"overview" validate:"required"`
	Image       string    `json:"image" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Date        string    `json:"date" validate:"required"`
	Time        string    `json:"time" validate:"required"`
	Mode        EventMode `json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string    `json:"audience" validate:"required"`
	Agenda      []string  `json:"agenda" validate:"required,min=1"`
	Organizer   string    `json:"organizer" validate:"required"`
	Tags        []string  `json:"tags" validate:"required,min=1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of e.
func (e *Event) Clone() *Event {
	c := *e
	c.Agenda = cloneStrings(e.Agenda)
	c.Tags = cloneStrings(e.Tags)
	return &c
}

// cloneStrings copies s, keeping nil and empty apart: validation reports
// them differently.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// EventPatch holds the fields of an update. Nil fields are left unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	Overview    *string
	Image       *string
	Venue       *string
	Location    *string
	Date        *string
	Time        *string
	Mode        *EventMode
	Audience    *string
	Agenda      []string
	Organizer   *string
	Tags        []string
}

// Apply returns a copy of e with the patch applied.
func (p *EventPatch) Apply(e *Event) *Event {
	out := e.Clone()
	setString(&out.Title, p.Title)
	setString(&out.Description, p.Description)
	setString(&out.Overview, p.Overview)
	setString(&out.Image, p.Image)
	setString(&out.Venue, p.Venue)
	setString(&out.Location, p.Location)
	setString(&out.Date, p.Date)
	setString(&out.Time, p.Time)
	setString(&out.Audience, p.Audience)
	setString(&out.Organizer, p.Organizer)
	if p.Mode != nil {
		out.Mode = *p.Mode
	}
	if p.Agenda != nil {
		out.Agenda = cloneStrings(p.Agenda)
	}
	if p.Tags != nil {
		out.Tags = cloneStrings(p.Tags)
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// slugSpace is the whitespace a title may carry: ASCII spacing plus vertical
// tab, every Unicode space separator, the line and paragraph separators and
// the byte order mark. RE2's \s alone covers only [\t\n\f\r ].
const slugSpace = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	slugUnsafe     = regexp.MustCompile(`[^\w` + slugSpace + `-]`)
	slugWhitespace = regexp.MustCompile(`[` + slugSpace + `]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// isSlugSpace reports whether r belongs to slugSpace.
func isSlugSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// Slugify derives the URL-safe identifier of a title,
// e.g. "React Summit 2024!" becomes "react-summit-2024".
func Slugify(title string) string {
	s := strings.TrimFunc(strings.ToLower(title), isSlugSpace)
	s = slugUnsafe.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	return slugHyphens.ReplaceAllString(s, "-")
}

// dateLayouts are the calendar date forms accepted on write.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate parses s as a calendar date and returns it as YYYY-MM-DD.
// Values carrying a zone offset are converted to UTC first.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().Format("2006-01-02"), true
		}
	}
	return "", false
}

var timePattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTime reports whether s is a 24-hour HH:MM time.
func ValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// NormalizeEvent prepares next for a write. prev is the stored version, or
// nil when next is new. Derived fields are recomputed only when their
// source changed, so saving an unchanged event is a no-op. next is never
// modified.
func NormalizeEvent(next, prev *Event) (*Event, error) {
	out := next.Clone()
	for _, f := range []*string{&out.Title, &out.Description, &out.Overview, &out.Venue, &out.Location, &out.Audience, &out.Organizer} {
		*f = strings.TrimSpace(*f)
	}
	out.Slug = ""
	if prev != nil {
		out.Slug = prev.Slug
	}

	if err := validateStruct(out); err != nil {
		return nil, err
	}

	if prev == nil || out.Title != prev.Title {
		out.Slug = Slugify(out.Title)
	}
	if prev == nil || out.Date != prev.Date {
		date, ok := NormalizeDate(out.Date)
		if !ok {
			return nil, NewValidationError("invalid date format, use YYYY-MM-DD or ISO 8601")
		}
		out.Date = date
	}
	if prev == nil || out.Time != prev.Time {
		if !ValidTime(out.Time) {
			return nil, NewValidationError("invalid time format, use 24-hour HH:MM")
		}
	}
	return out, nil
}

// EventRepository defines the interface for event storage.
// Create and Update return ErrDuplicateKey when the slug is already taken.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
}

// EventService defines event writes and the read accessors used by the display layer.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, patch *EventPatch) (*Event, error)
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
}
