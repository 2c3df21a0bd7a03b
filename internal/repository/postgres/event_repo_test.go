package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"devevent/internal/database"
	"devevent/internal/domain"
)

const testEventID = "6f1c2b9e-3d4a-4c5b-8e7f-0a1b2c3d4e5f"

var eventRowColumns = []string{"id", "title", "slug", "description", "overview", "image", "venue", "location", "date", "time", "mode", "audience", "agenda", "organizer", "tags", "created_at", "updated_at"}

func sampleEvent() *domain.Event {
	return &domain.Event{
		Title:       "React Summit 2024",
		Slug:        "react-summit-2024",
		Description: "desc",
		Overview:    "overview",
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

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, database.Provider[*sql.DB]) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock, database.Static[*sql.DB]{Conn: db}
}

type failingProvider struct{ err error }

func (p failingProvider) Get(context.Context) (*sql.DB, error) { return nil, p.err }

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name:  "success",
			event: sampleEvent(),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, slug, description`).
					WithArgs("React Summit 2024", "react-summit-2024", "desc", "overview", "/x.png", "Hall A", "Amsterdam",
						"2025-06-14", "09:00", "offline", "devs", sqlmock.AnyArg(), "Org", sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testEventID, created, created))
			},
			wantID: testEventID,
		},
		{
			name: "empty slug is stored as NULL",
			event: func() *domain.Event {
				e := sampleEvent()
				e.Slug = ""
				return e
			}(),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("React Summit 2024", nil, "desc", "overview", "/x.png", "Hall A", "Amsterdam",
						"2025-06-14", "09:00", "offline", "devs", sqlmock.AnyArg(), "Org", sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testEventID, created, created))
			},
			wantID: testEventID,
		},
		{
			name:  "slug taken",
			event: sampleEvent(),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "events_slug_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateKey,
		},
		{
			name:  "db error",
			event: sampleEvent(),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
			errIs:   sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, conn := newMockDB(t)
			tt.mock(mock)
			repo := NewEventRepository(conn)
			err := repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.Equal(t, created, tt.event.CreatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		id    string
		mock  func(mock sqlmock.Sqlmock)
		want  *domain.Event
		errIs error
	}{
		{
			name: "success",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, slug, .* FROM events WHERE id = \$1`).
					WithArgs(testEventID).
					WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(
						testEventID, "React Summit 2024", "react-summit-2024", "desc", "overview", "/x.png", "Hall A", "Amsterdam",
						"2025-06-14", "09:00", "offline", "devs", []byte("{intro}"), "Org", []byte("{react,frontend}"), ts, ts))
			},
			want: func() *domain.Event {
				e := sampleEvent()
				e.ID = testEventID
				e.Tags = []string{"react", "frontend"}
				e.CreatedAt = ts
				e.UpdatedAt = ts
				return e
			}(),
		},
		{
			name: "null slug",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, slug`).
					WithArgs(testEventID).
					WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(
						testEventID, "React Summit 2024", nil, "desc", "overview", "/x.png", "Hall A", "Amsterdam",
						"2025-06-14", "09:00", "offline", "devs", []byte("{intro}"), "Org", []byte("{react}"), ts, ts))
			},
			want: func() *domain.Event {
				e := sampleEvent()
				e.ID = testEventID
				e.Slug = ""
				e.CreatedAt = ts
				e.UpdatedAt = ts
				return e
			}(),
		},
		{
			name: "not found",
			id:   testEventID,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, slug`).
					WithArgs(testEventID).
					WillReturnError(sql.ErrNoRows)
			},
			errIs: domain.ErrNotFound,
		},
		{
			name:  "malformed id never reaches the database",
			id:    "not-a-uuid",
			mock:  func(mock sqlmock.Sqlmock) {},
			errIs: domain.ErrInvalidID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, conn := newMockDB(t)
			tt.mock(mock)
			repo := NewEventRepository(conn)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, mock, conn := newMockDB(t)

	mock.ExpectQuery(`FROM events WHERE slug = \$1`).
		WithArgs("react-summit-2024").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(
			testEventID, "React Summit 2024", "react-summit-2024", "desc", "overview", "/x.png", "Hall A", "Amsterdam",
			"2025-06-14", "09:00", "offline", "devs", []byte("{intro}"), "Org", []byte("{react}"), ts, ts))
	mock.ExpectQuery(`FROM events WHERE slug = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewEventRepository(conn)
	got, err := repo.GetBySlug(ctx, "react-summit-2024")
	require.NoError(t, err)
	require.Equal(t, testEventID, got.ID)
	require.Equal(t, domain.ModeOffline, got.Mode)

	_, err = repo.GetBySlug(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("newest first", func(t *testing.T) {
		_, mock, conn := newMockDB(t)
		mock.ExpectQuery(`FROM events ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(eventRowColumns).
				AddRow("id-2", "B event", "b-event", "d", "o", "/b.png", "v", "l", "2025-02-01", "10:00", "online", "a", []byte("{x}"), "org", []byte("{t}"), ts.Add(time.Hour), ts).
				AddRow("id-1", "A event", "a-event", "d", "o", "/a.png", "v", "l", "2025-01-01", "09:00", "hybrid", "a", []byte("{x}"), "org", []byte("{t}"), ts, ts))
		got, err := NewEventRepository(conn).List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "id-2", got[0].ID)
		require.Equal(t, domain.ModeHybrid, got[1].Mode)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		_, mock, conn := newMockDB(t)
		mock.ExpectQuery(`FROM events ORDER BY created_at DESC`).
			WillReturnRows(sqlmock.NewRows(eventRowColumns))
		got, err := NewEventRepository(conn).List(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("connection unavailable", func(t *testing.T) {
		repo := NewEventRepository(failingProvider{err: domain.ErrConnection})
		_, err := repo.List(ctx)
		require.ErrorIs(t, err, domain.ErrConnection)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	updated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET`).
					WithArgs("React Summit 2024", "react-summit-2024", "desc", "overview", "/x.png", "Hall A", "Amsterdam",
						"2025-06-14", "09:00", "offline", "devs", sqlmock.AnyArg(), "Org", sqlmock.AnyArg(), testEventID).
					WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET`).WillReturnError(sql.ErrNoRows)
			},
			errIs: domain.ErrNotFound,
		},
		{
			name: "slug taken",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE events SET`).WillReturnError(&pq.Error{Code: "23505"})
			},
			errIs: domain.ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, conn := newMockDB(t)
			tt.mock(mock)
			e := sampleEvent()
			e.ID = testEventID
			err := NewEventRepository(conn).Update(ctx, e)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.Equal(t, updated, e.UpdatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMapError(t *testing.T) {
	require.NoError(t, mapError(nil))
	require.ErrorIs(t, mapError(sql.ErrNoRows), domain.ErrNotFound)
	require.ErrorIs(t, mapError(&pq.Error{Code: "23505"}), domain.ErrDuplicateKey)

	other := &pq.Error{Code: "23502"}
	require.Same(t, other, mapError(other))

	plain := errors.New("boom")
	require.Equal(t, plain, mapError(plain))
}
