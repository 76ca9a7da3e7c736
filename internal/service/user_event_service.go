package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-discovery/internal/domain"
	"event-discovery/internal/repository"
)

// UserEventService manages what a signed-in user does with events:
// registering, favoriting and following organizers.
type UserEventService interface {
	Register(ctx context.Context, email, eventID string) error
	Unregister(ctx context.Context, email, eventID string) error
	Favorite(ctx context.Context, email, eventID string) error
	Unfavorite(ctx context.Context, email, eventID string) error
	Follow(ctx context.Context, email, organizer string) error
	Unfollow(ctx context.Context, email, organizer string) error
	ListRegistrations(ctx context.Context, email string) ([]string, error)
	ListFavorites(ctx context.Context, email string) ([]string, error)
	ListFollows(ctx context.Context, email string) ([]string, error)
	Status(ctx context.Context, email, eventID string) (*domain.UserEventStatus, error)
}

type userEventService struct {
	relations repository.UserEventRepository
	events    repository.EventRepository
	reviews   repository.ReviewRepository
	clock     Clock
}

func NewUserEventService(
	relations repository.UserEventRepository,
	events repository.EventRepository,
	reviews repository.ReviewRepository,
	clock Clock,
) UserEventService {
	return &userEventService{relations: relations, events: events, reviews: reviews, clock: clock}
}

func (s *userEventService) save(ctx context.Context, kind, email, target string) error {
	if email == "" {
		return domain.ErrUnauthorized
	}
	if strings.TrimSpace(target) == "" {
		return domain.ErrValidation(kind + " target is required")
	}
	return s.relations.SaveRelation(ctx, &domain.UserRelation{
		Kind:      kind,
		UserEmail: email,
		Target:    target,
		CreatedAt: s.clock.now().UTC(),
	})
}

func (s *userEventService) remove(ctx context.Context, kind, email, target string) error {
	if email == "" {
		return domain.ErrUnauthorized
	}
	return s.relations.DeleteRelation(ctx, kind, email, target)
}

func (s *userEventService) Register(ctx context.Context, email, eventID string) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	if err := s.save(ctx, domain.RelationRegistration, email, eventID); err != nil {
		return err
	}
	if err := s.events.AdjustAttendees(ctx, eventID, 1); err != nil {
		return fmt.Errorf("count attendee for %s: %w", eventID, err)
	}
	return nil
}

func (s *userEventService) Unregister(ctx context.Context, email, eventID string) error {
	if err := s.remove(ctx, domain.RelationRegistration, email, eventID); err != nil {
		return err
	}
	if err := s.events.AdjustAttendees(ctx, eventID, -1); err != nil {
		return fmt.Errorf("release attendee for %s: %w", eventID, err)
	}
	return nil
}

func (s *userEventService) Favorite(ctx context.Context, email, eventID string) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.save(ctx, domain.RelationFavorite, email, eventID)
}

func (s *userEventService) Unfavorite(ctx context.Context, email, eventID string) error {
	return s.remove(ctx, domain.RelationFavorite, email, eventID)
}

func (s *userEventService) Follow(ctx context.Context, email, organizer string) error {
	return s.save(ctx, domain.RelationFollow, email, strings.TrimSpace(organizer))
}

func (s *userEventService) Unfollow(ctx context.Context, email, organizer string) error {
	return s.remove(ctx, domain.RelationFollow, email, strings.TrimSpace(organizer))
}

func (s *userEventService) list(ctx context.Context, kind, email string) ([]string, error) {
	if email == "" {
		return nil, domain.ErrUnauthorized
	}
	rels, err := s.relations.ListRelations(ctx, kind, email)
	if err != nil {
		return nil, err
	}
	targets := make([]string, 0, len(rels))
	for _, rel := range rels {
		targets = append(targets, rel.Target)
	}
	return targets, nil
}

func (s *userEventService) ListRegistrations(ctx context.Context, email string) ([]string, error) {
	return s.list(ctx, domain.RelationRegistration, email)
}

func (s *userEventService) ListFavorites(ctx context.Context, email string) ([]string, error) {
	return s.list(ctx, domain.RelationFavorite, email)
}

func (s *userEventService) ListFollows(ctx context.Context, email string) ([]string, error) {
	return s.list(ctx, domain.RelationFollow, email)
}

// Status is all false for guests.
func (s *userEventService) Status(ctx context.Context, email, eventID string) (*domain.UserEventStatus, error) {
	status := &domain.UserEventStatus{}
	if email == "" {
		return status, nil
	}

	var err error
	if status.Registered, err = s.relations.HasRelation(ctx, domain.RelationRegistration, email, eventID); err != nil {
		return nil, err
	}
	if status.Favorited, err = s.relations.HasRelation(ctx, domain.RelationFavorite, email, eventID); err != nil {
		return nil, err
	}
	_, err = s.reviews.GetReview(ctx, eventID, email)
	switch {
	case err == nil:
		status.Reviewed = true
	case !isNotFound(err):
		return nil, err
	}
	return status, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
