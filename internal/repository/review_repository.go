package repository

import (
	"context"
	"errors"

	"event-discovery/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const CollectionReviews = "reviews"

type ReviewRepository interface {
	SaveReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, eventID, email string) (*domain.Review, error)
	UpdateReview(ctx context.Context, eventID, email string, rating int, comment string) error
	DeleteReview(ctx context.Context, eventID, email string) error
	ListReviews(ctx context.Context, eventID string) ([]domain.Review, error)
}

type reviewRepo struct {
	client *firestore.Client
}

func NewReviewRepository(client *firestore.Client) ReviewRepository {
	return &reviewRepo{client: client}
}

func (r *reviewRepo) doc(eventID, email string) *firestore.DocumentRef {
	return r.client.Collection(CollectionReviews).Doc(docKey(eventID, email))
}

func (r *reviewRepo) SaveReview(ctx context.Context, review *domain.Review) error {
	ref := r.doc(review.EventID, review.UserEmail)
	review.ID = ref.ID
	_, err := ref.Create(ctx, review)
	return mapFirestoreErr(err)
}

func (r *reviewRepo) GetReview(ctx context.Context, eventID, email string) (*domain.Review, error) {
	snap, err := r.doc(eventID, email).Get(ctx)
	if err != nil {
		return nil, mapFirestoreErr(err)
	}
	var review domain.Review
	if err := snap.DataTo(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) UpdateReview(ctx context.Context, eventID, email string, rating int, comment string) error {
	_, err := r.doc(eventID, email).Update(ctx, []firestore.Update{
		{Path: "rating", Value: rating},
		{Path: "comment", Value: comment},
	})
	return mapFirestoreErr(err)
}

func (r *reviewRepo) DeleteReview(ctx context.Context, eventID, email string) error {
	_, err := r.doc(eventID, email).Delete(ctx, firestore.Exists)
	return mapFirestoreErr(err)
}

func (r *reviewRepo) ListReviews(ctx context.Context, eventID string) ([]domain.Review, error) {
	iter := r.client.Collection(CollectionReviews).
		Where("event_id", "==", eventID).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var reviews []domain.Review
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var review domain.Review
		if err := doc.DataTo(&review); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}
