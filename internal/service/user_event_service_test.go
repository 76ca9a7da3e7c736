package service_test

import (
	"context"
	"errors"
	"testing"

	"event-discovery/internal/domain"
	"event-discovery/internal/service"
)

// MockReviewRepo keeps reviews in memory keyed by event and email
type MockReviewRepo struct {
	reviews map[string]domain.Review
	SaveErr error
}

func newMockReviewRepo() *MockReviewRepo {
	return &MockReviewRepo{reviews: map[string]domain.Review{}}
}

func reviewKey(eventID, email string) string { return eventID + "|" + email }

func (m *MockReviewRepo) SaveReview(ctx context.Context, r *domain.Review) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	key := reviewKey(r.EventID, r.UserEmail)
	if _, ok := m.reviews[key]; ok {
		return domain.ErrConflict
	}
	r.ID = key
	m.reviews[key] = *r
	return nil
}

func (m *MockReviewRepo) GetReview(ctx context.Context, eventID, email string) (*domain.Review, error) {
	r, ok := m.reviews[reviewKey(eventID, email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (m *MockReviewRepo) UpdateReview(ctx context.Context, eventID, email string, rating int, comment string) error {
	key := reviewKey(eventID, email)
	r, ok := m.reviews[key]
	if !ok {
		return domain.ErrNotFound
	}
	r.Rating, r.Comment = rating, comment
	m.reviews[key] = r
	return nil
}

func (m *MockReviewRepo) DeleteReview(ctx context.Context, eventID, email string) error {
	key := reviewKey(eventID, email)
	if _, ok := m.reviews[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reviews, key)
	return nil
}

func (m *MockReviewRepo) ListReviews(ctx context.Context, eventID string) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range m.reviews {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

// MockRelationRepo
type MockRelationRepo struct {
	SaveFunc   func(ctx context.Context, rel *domain.UserRelation) error
	DeleteFunc func(ctx context.Context, kind, email, target string) error
	HasFunc    func(ctx context.Context, kind, email, target string) (bool, error)
	ListFunc   func(ctx context.Context, kind, email string) ([]domain.UserRelation, error)
}

func (m *MockRelationRepo) SaveRelation(ctx context.Context, rel *domain.UserRelation) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, rel)
	}
	return nil
}

func (m *MockRelationRepo) DeleteRelation(ctx context.Context, kind, email, target string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, kind, email, target)
	}
	return nil
}

func (m *MockRelationRepo) HasRelation(ctx context.Context, kind, email, target string) (bool, error) {
	if m.HasFunc != nil {
		return m.HasFunc(ctx, kind, email, target)
	}
	return false, nil
}

func (m *MockRelationRepo) ListRelations(ctx context.Context, kind, email string) ([]domain.UserRelation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, email)
	}
	return nil, nil
}

func TestAddReview(t *testing.T) {
	repo := newMockReviewRepo()
	svc := service.NewReviewService(repo, &MockRepository{}, fixedClock())
	ctx := context.Background()

	bad := &domain.Review{EventID: "e1", UserEmail: "a@example.com", Rating: 6}
	if err := svc.AddReview(ctx, bad); !domain.IsValidation(err) {
		t.Errorf("Expected validation error for rating 6, got %v", err)
	}

	guest := &domain.Review{EventID: "e1", Rating: 4}
	if err := svc.AddReview(ctx, guest); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized for guest, got %v", err)
	}

	review := &domain.Review{EventID: "e1", UserEmail: "a@example.com", Rating: 4}
	if err := svc.AddReview(ctx, review); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if review.CreatedAt.IsZero() || review.UserName != "a@example.com" {
		t.Errorf("Expected defaults to be filled, got %+v", review)
	}

	again := &domain.Review{EventID: "e1", UserEmail: "a@example.com", Rating: 2}
	if err := svc.AddReview(ctx, again); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected ErrConflict for second review, got %v", err)
	}
}

func TestAddReview_UnknownEvent(t *testing.T) {
	events := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := service.NewReviewService(newMockReviewRepo(), events, fixedClock())

	err := svc.AddReview(context.Background(), &domain.Review{EventID: "nope", UserEmail: "a@example.com", Rating: 3})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReviewAndHasReviewed(t *testing.T) {
	repo := newMockReviewRepo()
	svc := service.NewReviewService(repo, &MockRepository{}, fixedClock())
	ctx := context.Background()

	if ok, _ := svc.HasReviewed(ctx, "e1", "a@example.com"); ok {
		t.Error("Expected no review yet")
	}
	if _, err := svc.UpdateReview(ctx, "e1", "a@example.com", 3, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating a missing review, got %v", err)
	}

	_ = svc.AddReview(ctx, &domain.Review{EventID: "e1", UserEmail: "a@example.com", Rating: 4})
	updated, err := svc.UpdateReview(ctx, "e1", "a@example.com", 2, "meh")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Rating != 2 || updated.Comment != "meh" {
		t.Errorf("Unexpected review %+v", updated)
	}
	if ok, _ := svc.HasReviewed(ctx, "e1", "a@example.com"); !ok {
		t.Error("Expected review to exist")
	}

	if err := svc.DeleteReview(ctx, "e1", "a@example.com"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ok, _ := svc.HasReviewed(ctx, "e1", "a@example.com"); ok {
		t.Error("Expected review to be gone")
	}
}

func TestAverageRating(t *testing.T) {
	repo := newMockReviewRepo()
	svc := service.NewReviewService(repo, &MockRepository{}, fixedClock())
	ctx := context.Background()

	summary, err := svc.AverageRating(ctx, "e1")
	if err != nil || summary.Count != 0 || summary.Average != 0 {
		t.Errorf("Expected empty summary, got %+v, %v", summary, err)
	}

	for email, rating := range map[string]int{"a": 5, "b": 4, "c": 4} {
		_ = svc.AddReview(ctx, &domain.Review{EventID: "e1", UserEmail: email, Rating: rating})
	}
	summary, _ = svc.AverageRating(ctx, "e1")
	if summary.Count != 3 || summary.Average != 4.3 {
		t.Errorf("Expected 4.3 over 3 reviews, got %+v", summary)
	}
}

func TestRegister_AdjustsAttendees(t *testing.T) {
	var deltas []int
	events := &MockRepository{
		AdjustAttendeesFunc: func(ctx context.Context, id string, delta int) error {
			deltas = append(deltas, delta)
			return nil
		},
	}
	var saved *domain.UserRelation
	relations := &MockRelationRepo{
		SaveFunc: func(ctx context.Context, rel *domain.UserRelation) error {
			saved = rel
			return nil
		},
	}
	svc := service.NewUserEventService(relations, events, newMockReviewRepo(), fixedClock())
	ctx := context.Background()

	if err := svc.Register(ctx, "a@example.com", "e1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if saved == nil || saved.Kind != domain.RelationRegistration || saved.Target != "e1" {
		t.Errorf("Unexpected relation %+v", saved)
	}
	if err := svc.Unregister(ctx, "a@example.com", "e1"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(deltas) != 2 || deltas[0] != 1 || deltas[1] != -1 {
		t.Errorf("Expected +1 then -1, got %v", deltas)
	}
}

func TestRegister_DuplicateDoesNotCountTwice(t *testing.T) {
	adjusted := false
	events := &MockRepository{
		AdjustAttendeesFunc: func(ctx context.Context, id string, delta int) error {
			adjusted = true
			return nil
		},
	}
	relations := &MockRelationRepo{
		SaveFunc: func(ctx context.Context, rel *domain.UserRelation) error {
			return domain.ErrConflict
		},
	}
	svc := service.NewUserEventService(relations, events, newMockReviewRepo(), fixedClock())

	err := svc.Register(context.Background(), "a@example.com", "e1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
	if adjusted {
		t.Error("Attendees must not change on a duplicate registration")
	}
}

func TestUserEvents_GuestsAreRejected(t *testing.T) {
	svc := service.NewUserEventService(&MockRelationRepo{}, &MockRepository{}, newMockReviewRepo(), fixedClock())
	ctx := context.Background()

	if err := svc.Favorite(ctx, "", "e1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if err := svc.Follow(ctx, "", "Live Nation"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.ListFavorites(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestFollow_RequiresOrganizer(t *testing.T) {
	svc := service.NewUserEventService(&MockRelationRepo{}, &MockRepository{}, newMockReviewRepo(), fixedClock())

	if err := svc.Follow(context.Background(), "a@example.com", "  "); !domain.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestListFollows(t *testing.T) {
	relations := &MockRelationRepo{
		ListFunc: func(ctx context.Context, kind, email string) ([]domain.UserRelation, error) {
			if kind != domain.RelationFollow {
				t.Errorf("Expected follows, got %s", kind)
			}
			return []domain.UserRelation{{Target: "Live Nation"}, {Target: "GopherCon"}}, nil
		},
	}
	svc := service.NewUserEventService(relations, &MockRepository{}, newMockReviewRepo(), fixedClock())

	names, err := svc.ListFollows(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(names) != 2 || names[0] != "Live Nation" {
		t.Errorf("Unexpected follows %v", names)
	}
}

func TestStatus(t *testing.T) {
	reviews := newMockReviewRepo()
	_ = reviews.SaveReview(context.Background(), &domain.Review{EventID: "e1", UserEmail: "a@example.com", Rating: 5})
	relations := &MockRelationRepo{
		HasFunc: func(ctx context.Context, kind, email, target string) (bool, error) {
			return kind == domain.RelationFavorite, nil
		},
	}
	svc := service.NewUserEventService(relations, &MockRepository{}, reviews, fixedClock())

	status, err := svc.Status(context.Background(), "a@example.com", "e1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := domain.UserEventStatus{Registered: false, Favorited: true, Reviewed: true}
	if *status != want {
		t.Errorf("Expected %+v, got %+v", want, *status)
	}

	guest, err := svc.Status(context.Background(), "", "e1")
	if err != nil || *guest != (domain.UserEventStatus{}) {
		t.Errorf("Expected empty status for guests, got %+v, %v", guest, err)
	}
}
