package migration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-discovery/internal/domain"
	"event-discovery/internal/repository"
)

const dump = `{
  "eventApp_events": [
    {
      "id": "1",
      "title": "城市爵士音乐节",
      "date": "2026年10月25日 19:30",
      "location": "上海 · 西岸艺术中心",
      "category": "音乐",
      "attendees": 120,
      "price": "¥199起",
      "imageUrl": "https://example.com/jazz.jpg",
      "organizer": {"name": "Blue Note", "avatar": "", "description": "", "eventsCount": 8},
      "highlights": ["现场乐队"],
      "agenda": [{"time": "19:30", "title": "开场", "description": ""}],
      "reviews": [
        {"user": "小王", "rating": 5, "date": "2026-09-01", "comment": "很棒", "userEmail": "wang@example.com"},
        {"user": "匿名", "rating": 4, "comment": "不错"}
      ]
    },
    {"id": "2", "title": "AI 开发者大会", "date": "2026年11月2日 09:00", "location": "北京", "category": "科技", "price": "免费", "status": "draft", "createdBy": "alice@example.com"},
    {"id": "", "title": "missing id"}
  ],
  "eventApp_registeredUsers": [{"email": "alice@example.com", "password": "secret", "name": "Alice"}],
  "eventApp_user_alice@example.com_registeredEvents": ["1"],
  "eventApp_user_alice@example.com_favoriteEvents": ["1", "2"],
  "eventApp_user_bob_smith@example.com_followedOrganizers": ["Blue Note"],
  "eventApp_theme": "dark"
}`

func openStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	imp := NewImporter(store.Events(), store.Reviews(), store.Relations(), WithClock(fixedClock))

	summary, err := imp.Import(ctx, []byte(dump))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Events)
	assert.Equal(t, 1, summary.Reviews)
	assert.Equal(t, 1, summary.Registrations)
	assert.Equal(t, 2, summary.Favorites)
	assert.Equal(t, 1, summary.Follows)
	assert.Equal(t, 2, summary.Users)
	assert.Equal(t, 1, summary.Skipped, "review without an email")
	assert.Len(t, summary.Errors, 1)

	jazz, err := store.Events().GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, jazz.Status)
	assert.Equal(t, 120, jazz.Attendees, "registrations must not bump attendees")
	assert.Equal(t, "https://example.com/jazz.jpg", jazz.ImageURL)
	require.NotNil(t, jazz.Organizer)
	assert.Equal(t, 8, jazz.Organizer.EventsCount)
	assert.Equal(t, []domain.AgendaItem{{Time: "19:30", Title: "开场"}}, jazz.Agenda)

	draft, err := store.Events().GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, draft.Status)
	assert.True(t, jazz.CreatedAt.After(draft.CreatedAt), "first stored event is newest")

	review, err := store.Reviews().GetReview(ctx, "1", "wang@example.com")
	require.NoError(t, err)
	assert.Equal(t, "小王", review.UserName)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), review.CreatedAt)

	ok, err := store.Relations().HasRelation(ctx, domain.RelationFollow, "bob_smith@example.com", "Blue Note")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestImport_RerunSkipsExisting(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	imp := NewImporter(store.Events(), store.Reviews(), store.Relations(), WithClock(fixedClock))

	_, err := imp.Import(ctx, []byte(dump))
	require.NoError(t, err)

	summary, err := imp.Import(ctx, []byte(dump))
	require.NoError(t, err)
	assert.Zero(t, summary.Events)
	assert.Zero(t, summary.Reviews)
	assert.Zero(t, summary.Favorites)
	// 2 events, 1 review, 4 relations, 1 review without email
	assert.Equal(t, 8, summary.Skipped)
	assert.Len(t, summary.Errors, 1)
}

func TestImport_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	imp := NewImporter(store.Events(), store.Reviews(), store.Relations(), WithDryRun(true))

	summary, err := imp.Import(ctx, []byte(dump))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Events)

	_, err = store.Events().GetByID(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImport_RejectsNonObject(t *testing.T) {
	imp := NewImporter(nil, nil, nil)
	_, err := imp.Import(context.Background(), []byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestImport_BadRatingIsReported(t *testing.T) {
	store := openStore(t)
	imp := NewImporter(store.Events(), store.Reviews(), store.Relations())

	summary, err := imp.Import(context.Background(), []byte(`{"eventApp_events":[
		{"id":"9","title":"t","reviews":[{"user":"x","rating":7,"userEmail":"x@example.com"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Events)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "out of range")
}

func TestSplitUserKey(t *testing.T) {
	tests := []struct {
		key   string
		email string
		kind  string
		ok    bool
	}{
		{"eventApp_user_a@b.com_registeredEvents", "a@b.com", domain.RelationRegistration, true},
		{"eventApp_user_first_last@b.com_favoriteEvents", "first_last@b.com", domain.RelationFavorite, true},
		{"eventApp_user_a@b.com_followedOrganizers", "a@b.com", domain.RelationFollow, true},
		{"eventApp_user__favoriteEvents", "", "", false},
		{"eventApp_user_a@b.com_settings", "", "", false},
		{"eventApp_events", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			email, kind, ok := splitUserKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.email, email)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
