package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		Title:       "React Summit 2024",
		Description: "The biggest React conference",
		Overview:    "Two days of talks",
		Image:       "/x.png",
		Venue:       "Hall A",
		Location:    "Amsterdam",
		Date:        "2025-06-14",
		Time:        "09:00",
		Mode:        ModeOffline,
		Audience:    "devs",
		Agenda:      []string{"intro"},
		Organizer:   "Org",
		Tags:        []string{"react"},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"React Summit 2024!", "react-summit-2024"},
		{"  Google I/O Extended  ", "google-io-extended"},
		{"AWS re:Invent", "aws-reinvent"},
		{"Next.js   Conf", "nextjs-conf"},
		{"multi -- hyphen", "multi-hyphen"},
		{"snake_case_title", "snake_case_title"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"React\u00a0Summit", "react-summit"},
		{"React\vSummit", "react-summit"},
		{"React\u2003Summit", "react-summit"},
		{"React\u3000\u2028Summit", "react-summit"},
		{"\ufeff\u00a0React Summit\u00a0", "react-summit"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2025-06-14", "2025-06-14", true},
		{"2025-06-14T09:30:00Z", "2025-06-14", true},
		{"2025-06-14T23:30:00-05:00", "2025-06-15", true},
		{"2025-06-14T09:30", "2025-06-14", true},
		{"2025/06/14", "2025-06-14", true},
		{"6/14/2025", "2025-06-14", true},
		{"June 14, 2025", "2025-06-14", true},
		{"Jun 14, 2025", "2025-06-14", true},
		{" 2025-06-14 ", "2025-06-14", true},
		{"2025-02-30", "", false},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeDate(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "09:00", "12:30", "19:59", "23:59"}
	invalid := []string{"24:00", "9:00", "09:60", "09:00 AM", "0900", "", " 09:00", "09:00:00"}
	for _, s := range valid {
		assert.True(t, ValidTime(s), s)
	}
	for _, s := range invalid {
		assert.False(t, ValidTime(s), s)
	}
}

func TestNormalizeEvent_New(t *testing.T) {
	in := validEvent()
	in.Title = "  React Summit 2024  "
	in.Venue = " Hall A "
	in.Slug = "caller-supplied"

	got, err := NormalizeEvent(in, nil)
	require.NoError(t, err)
	assert.Equal(t, "React Summit 2024", got.Title)
	assert.Equal(t, "react-summit-2024", got.Slug)
	assert.Equal(t, "Hall A", got.Venue)
	assert.Equal(t, "2025-06-14", got.Date)
	assert.Equal(t, "09:00", got.Time)

	// the input is left untouched
	assert.Equal(t, "caller-supplied", in.Slug)
	assert.Equal(t, " Hall A ", in.Venue)
}

func TestNormalizeEvent_RewritesDate(t *testing.T) {
	in := validEvent()
	in.Date = "2025-06-14T10:00:00Z"
	got, err := NormalizeEvent(in, nil)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-14", got.Date)
}

func TestNormalizeEvent_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Event)
		problem string
	}{
		{"short title", func(e *Event) { e.Title = " ab " }, "title must be at least 3 characters"},
		{"missing title", func(e *Event) { e.Title = "" }, "event title is required"},
		{"missing description", func(e *Event) { e.Description = "   " }, "event description is required"},
		{"missing image", func(e *Event) { e.Image = "" }, "event image URL is required"},
		{"bad mode", func(e *Event) { e.Mode = "remote" }, "mode must be online, offline, or hybrid"},
		{"nil agenda", func(e *Event) { e.Agenda = nil }, "event agenda is required"},
		{"empty agenda", func(e *Event) { e.Agenda = []string{} }, "agenda must contain at least one item"},
		{"empty tags", func(e *Event) { e.Tags = []string{} }, "tags must contain at least one item"},
		{"bad date", func(e *Event) { e.Date = "someday" }, "invalid date format, use YYYY-MM-DD or ISO 8601"},
		{"bad time", func(e *Event) { e.Time = "9:00 AM" }, "invalid time format, use 24-hour HH:MM"},
		{"hour out of range", func(e *Event) { e.Time = "24:00" }, "invalid time format, use 24-hour HH:MM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEvent()
			tt.mutate(in)
			got, err := NormalizeEvent(in, nil)
			require.Nil(t, got)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Problems, tt.problem)
		})
	}
}

func TestNormalizeEvent_TitleLengthCountsUTF16Units(t *testing.T) {
	in := validEvent()
	in.Title = "🎉🎉"
	got, err := NormalizeEvent(in, nil)
	require.NoError(t, err)
	assert.Equal(t, "🎉🎉", got.Title)
	assert.Empty(t, got.Slug)

	in.Title = "🎉"
	_, err = NormalizeEvent(in, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"title must be at least 3 characters"}, verr.Problems)
}

func TestNormalizeEvent_ReportsAllStructuralProblems(t *testing.T) {
	in := validEvent()
	in.Venue = ""
	in.Organizer = ""
	_, err := NormalizeEvent(in, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"event venue is required", "event organizer is required"}, verr.Problems)
}

func TestNormalizeEvent_UnchangedFieldsAreNotRederived(t *testing.T) {
	stored, err := NormalizeEvent(validEvent(), nil)
	require.NoError(t, err)
	stored.ID = "ev-1"

	// re-saving the stored version is idempotent
	again, err := NormalizeEvent(stored, stored)
	require.NoError(t, err)
	assert.Equal(t, stored, again)

	// a legacy time value is not re-checked unless it changes
	legacy := stored.Clone()
	legacy.Time = "9:00"
	desc := "Updated description"
	next := (&EventPatch{Description: &desc}).Apply(legacy)
	got, err := NormalizeEvent(next, legacy)
	require.NoError(t, err)
	assert.Equal(t, "9:00", got.Time)
	assert.Equal(t, "Updated description", got.Description)
	assert.Equal(t, "react-summit-2024", got.Slug)
}

func TestNormalizeEvent_TitleChangeRecomputesSlug(t *testing.T) {
	stored, err := NormalizeEvent(validEvent(), nil)
	require.NoError(t, err)

	title := "React Summit 2025"
	got, err := NormalizeEvent((&EventPatch{Title: &title}).Apply(stored), stored)
	require.NoError(t, err)
	assert.Equal(t, "react-summit-2025", got.Slug)
}

func TestNormalizeEvent_KeepsStoredSlugOverCallerValue(t *testing.T) {
	stored, err := NormalizeEvent(validEvent(), nil)
	require.NoError(t, err)

	next := stored.Clone()
	next.Slug = "hijacked"
	got, err := NormalizeEvent(next, stored)
	require.NoError(t, err)
	assert.Equal(t, "react-summit-2024", got.Slug)
}

func TestEventPatch_Apply(t *testing.T) {
	base := validEvent()
	mode := ModeHybrid
	patch := &EventPatch{Mode: &mode, Tags: []string{"react", "js"}}
	got := patch.Apply(base)
	assert.Equal(t, ModeHybrid, got.Mode)
	assert.Equal(t, []string{"react", "js"}, got.Tags)
	assert.Equal(t, ModeOffline, base.Mode)
	assert.Equal(t, []string{"react"}, base.Tags)
	assert.Equal(t, base.Agenda, got.Agenda)
}

func TestEvent_CloneKeepsEmptySlices(t *testing.T) {
	c := (&Event{Agenda: []string{}}).Clone()
	assert.NotNil(t, c.Agenda)
	assert.Empty(t, c.Agenda)
	assert.Nil(t, c.Tags)

	in := validEvent()
	c = in.Clone()
	c.Agenda[0] = "changed"
	assert.Equal(t, []string{"intro"}, in.Agenda)
}

func TestEventPatch_ApplyEmptySlice(t *testing.T) {
	got := (&EventPatch{Tags: []string{}}).Apply(validEvent())
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)

	_, err := NormalizeEvent(got, nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"tags must contain at least one item"}, verr.Problems)
}
