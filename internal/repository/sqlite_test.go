package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-discovery/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testEvent(id string, createdAt time.Time) *domain.Event {
	return &domain.Event{
		ID:         id,
		Title:      "Event " + id,
		Category:   "音乐",
		Date:       "2026年10月20日 19:30",
		Location:   "上海 · 梅赛德斯奔驰文化中心",
		Price:      "¥199起",
		Attendees:  3,
		Organizer:  &domain.Organizer{Name: "Live Nation", EventsCount: 12},
		Highlights: []string{"现场乐队"},
		Agenda:     []domain.AgendaItem{{Time: "19:30", Title: "开场"}},
		Status:     domain.StatusPublished,
		CreatedBy:  "alice@example.com",
		CreatedAt:  createdAt,
	}
}

func TestOpenSQLite_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM "+migrationTable).Scan(&applied))
	assert.Equal(t, 2, applied)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestUpSection(t *testing.T) {
	sql := "-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id TEXT);\n", upSection(sql))
	assert.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}

func TestSQLiteEvents_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Events()
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, testEvent("e1", created)))

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, testEvent("e1", created), got)

	err = repo.Save(ctx, testEvent("e1", created))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteEvents_Update(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Events()
	require.NoError(t, repo.Save(ctx, testEvent("e1", time.Now())))

	err := repo.Update(ctx, "e1", map[string]interface{}{
		"title":      "Renamed",
		"highlights": []string{"a", "b"},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, []string{"a", "b"}, got.Highlights)

	assert.Error(t, repo.Update(ctx, "e1", map[string]interface{}{"created_by": "mallory"}))
	assert.ErrorIs(t, repo.Update(ctx, "missing", map[string]interface{}{"title": "x"}), domain.ErrNotFound)
}

func TestSQLiteEvents_UpdateTypedJSONColumnsKeepsListReadable(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Events()
	require.NoError(t, repo.Save(ctx, testEvent("e1", time.Now())))
	require.NoError(t, repo.Save(ctx, testEvent("e2", time.Now())))

	err := repo.Update(ctx, "e1", map[string]interface{}{
		"organizer": &domain.Organizer{Name: "Blue Note", EventsCount: 3},
		"agenda":    []domain.AgendaItem{{Time: "20:00", Title: "Encore"}},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, "e2", map[string]interface{}{
		"organizer": (*domain.Organizer)(nil),
		"agenda":    []domain.AgendaItem{},
	}))

	events, err := repo.List(ctx, domain.ListQuery{Status: domain.StatusPublished})
	require.NoError(t, err)
	require.Len(t, events, 2)

	byID := map[string]domain.Event{}
	for _, e := range events {
		byID[e.ID] = e
	}
	require.NotNil(t, byID["e1"].Organizer)
	assert.Equal(t, "Blue Note", byID["e1"].Organizer.Name)
	assert.Equal(t, []domain.AgendaItem{{Time: "20:00", Title: "Encore"}}, byID["e1"].Agenda)
	assert.Nil(t, byID["e2"].Organizer)
	assert.Empty(t, byID["e2"].Agenda)
}

func TestSQLiteEvents_AdjustAttendeesFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Events()
	require.NoError(t, repo.Save(ctx, testEvent("e1", time.Now())))

	require.NoError(t, repo.AdjustAttendees(ctx, "e1", 1))
	got, _ := repo.GetByID(ctx, "e1")
	assert.Equal(t, 4, got.Attendees)

	require.NoError(t, repo.AdjustAttendees(ctx, "e1", -10))
	got, _ = repo.GetByID(ctx, "e1")
	assert.Equal(t, 0, got.Attendees)

	assert.ErrorIs(t, repo.AdjustAttendees(ctx, "missing", 1), domain.ErrNotFound)
}

func TestSQLiteEvents_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Events()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	draft := testEvent("draft", base.Add(3*time.Hour))
	draft.Status = domain.StatusDraft
	require.NoError(t, repo.BatchSave(ctx, []*domain.Event{
		testEvent("old", base),
		testEvent("new", base.Add(2*time.Hour)),
		draft,
	}))

	published, err := repo.List(ctx, domain.ListQuery{Status: domain.StatusPublished})
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "new", published[0].ID)
	assert.Equal(t, "old", published[1].ID)

	limited, err := repo.List(ctx, domain.ListQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "draft", limited[0].ID)

	require.NoError(t, repo.Delete(ctx, "old"))
	assert.ErrorIs(t, repo.Delete(ctx, "old"), domain.ErrNotFound)
}

func TestSQLiteEvents_BatchSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Events()

	err := repo.BatchSave(ctx, []*domain.Event{testEvent("a", time.Now()), testEvent("a", time.Now())})
	require.Error(t, err)

	all, err := repo.List(ctx, domain.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteReviews(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Reviews()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.Review{EventID: "e1", UserEmail: "a@example.com", UserName: "A", Rating: 4, CreatedAt: base}
	require.NoError(t, repo.SaveReview(ctx, first))
	assert.NotEmpty(t, first.ID)

	dup := &domain.Review{EventID: "e1", UserEmail: "a@example.com", Rating: 2, CreatedAt: base}
	assert.ErrorIs(t, repo.SaveReview(ctx, dup), domain.ErrConflict)

	second := &domain.Review{EventID: "e1", UserEmail: "b@example.com", Rating: 5, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.SaveReview(ctx, second))

	reviews, err := repo.ListReviews(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "b@example.com", reviews[0].UserEmail)

	require.NoError(t, repo.UpdateReview(ctx, "e1", "a@example.com", 3, "ok"))
	got, err := repo.GetReview(ctx, "e1", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rating)
	assert.Equal(t, "ok", got.Comment)

	require.NoError(t, repo.DeleteReview(ctx, "e1", "a@example.com"))
	_, err = repo.GetReview(ctx, "e1", "a@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateReview(ctx, "e1", "a@example.com", 1, ""), domain.ErrNotFound)
}

func TestSQLiteRelations(t *testing.T) {
	ctx := context.Background()
	repo := openTestStore(t).Relations()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	email := "a@example.com"

	require.NoError(t, repo.SaveRelation(ctx, &domain.UserRelation{
		Kind: domain.RelationFavorite, UserEmail: email, Target: "e1", CreatedAt: base,
	}))
	require.NoError(t, repo.SaveRelation(ctx, &domain.UserRelation{
		Kind: domain.RelationFavorite, UserEmail: email, Target: "e2", CreatedAt: base.Add(time.Minute),
	}))
	// same target under another kind is a separate relation
	require.NoError(t, repo.SaveRelation(ctx, &domain.UserRelation{
		Kind: domain.RelationRegistration, UserEmail: email, Target: "e1", CreatedAt: base,
	}))

	err := repo.SaveRelation(ctx, &domain.UserRelation{
		Kind: domain.RelationFavorite, UserEmail: email, Target: "e1", CreatedAt: base,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	has, err := repo.HasRelation(ctx, domain.RelationFavorite, email, "e2")
	require.NoError(t, err)
	assert.True(t, has)

	favs, err := repo.ListRelations(ctx, domain.RelationFavorite, email)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "e2", favs[0].Target)

	require.NoError(t, repo.DeleteRelation(ctx, domain.RelationFavorite, email, "e2"))
	has, err = repo.HasRelation(ctx, domain.RelationFavorite, email, "e2")
	require.NoError(t, err)
	assert.False(t, has)
	assert.ErrorIs(t, repo.DeleteRelation(ctx, domain.RelationFavorite, email, "e2"), domain.ErrNotFound)
}

func TestDocKeyIsStable(t *testing.T) {
	assert.Equal(t, docKey("e1", "a@example.com"), docKey("e1", "a@example.com"))
	assert.NotEqual(t, docKey("e1", "a@example.com"), docKey("e1a", "@example.com"))
}

func TestOpen_PicksDriver(t *testing.T) {
	store, err := Open(context.Background(), "sqlite", "", "", filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &SQLiteStore{}, store)

	_, err = Open(context.Background(), "postgres", "", "", "")
	assert.ErrorContains(t, err, "unknown store driver")
}
