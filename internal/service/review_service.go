package service

import (
	"context"
	"errors"
	"math"

	"event-discovery/internal/domain"
	"event-discovery/internal/repository"
)

type ReviewService interface {
	ListReviews(ctx context.Context, eventID string) ([]domain.Review, error)
	AddReview(ctx context.Context, review *domain.Review) error
	UpdateReview(ctx context.Context, eventID, email string, rating int, comment string) (*domain.Review, error)
	DeleteReview(ctx context.Context, eventID, email string) error
	HasReviewed(ctx context.Context, eventID, email string) (bool, error)
	AverageRating(ctx context.Context, eventID string) (domain.RatingSummary, error)
}

type reviewService struct {
	repo   repository.ReviewRepository
	events repository.EventRepository
	clock  Clock
}

func NewReviewService(repo repository.ReviewRepository, events repository.EventRepository, clock Clock) ReviewService {
	return &reviewService{repo: repo, events: events, clock: clock}
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return domain.ErrValidation("rating must be between 1 and 5")
	}
	return nil
}

func (s *reviewService) ListReviews(ctx context.Context, eventID string) ([]domain.Review, error) {
	if eventID == "" {
		return nil, domain.ErrValidation("event id is required")
	}
	reviews, err := s.repo.ListReviews(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// AddReview stores the first review a user writes for an event. A second one
// fails with ErrConflict; callers update instead.
func (s *reviewService) AddReview(ctx context.Context, review *domain.Review) error {
	if review.EventID == "" {
		return domain.ErrValidation("event id is required")
	}
	if review.UserEmail == "" {
		return domain.ErrUnauthorized
	}
	if err := validRating(review.Rating); err != nil {
		return err
	}
	if _, err := s.events.GetByID(ctx, review.EventID); err != nil {
		return err
	}
	if review.UserName == "" {
		review.UserName = review.UserEmail
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.clock.now().UTC()
	}
	return s.repo.SaveReview(ctx, review)
}

func (s *reviewService) UpdateReview(ctx context.Context, eventID, email string, rating int, comment string) (*domain.Review, error) {
	if email == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validRating(rating); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateReview(ctx, eventID, email, rating, comment); err != nil {
		return nil, err
	}
	return s.repo.GetReview(ctx, eventID, email)
}

func (s *reviewService) DeleteReview(ctx context.Context, eventID, email string) error {
	if email == "" {
		return domain.ErrUnauthorized
	}
	return s.repo.DeleteReview(ctx, eventID, email)
}

func (s *reviewService) HasReviewed(ctx context.Context, eventID, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	_, err := s.repo.GetReview(ctx, eventID, email)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AverageRating rounds to one decimal place. An event without reviews
// averages 0.
func (s *reviewService) AverageRating(ctx context.Context, eventID string) (domain.RatingSummary, error) {
	reviews, err := s.repo.ListReviews(ctx, eventID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if len(reviews) == 0 {
		return domain.RatingSummary{}, nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return domain.RatingSummary{
		Average: math.Round(avg*10) / 10,
		Count:   len(reviews),
	}, nil
}
