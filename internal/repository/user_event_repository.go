package repository

import (
	"context"
	"errors"
	"fmt"

	"event-discovery/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Relations live in one collection per kind: registrations, favorites, follows.
type UserEventRepository interface {
	SaveRelation(ctx context.Context, relation *domain.UserRelation) error
	DeleteRelation(ctx context.Context, kind, email, target string) error
	HasRelation(ctx context.Context, kind, email, target string) (bool, error)
	ListRelations(ctx context.Context, kind, email string) ([]domain.UserRelation, error)
}

type userEventRepo struct {
	client *firestore.Client
}

func NewUserEventRepository(client *firestore.Client) UserEventRepository {
	return &userEventRepo{client: client}
}

func (r *userEventRepo) doc(kind, email, target string) *firestore.DocumentRef {
	return r.client.Collection(kind).Doc(docKey(email, target))
}

func (r *userEventRepo) SaveRelation(ctx context.Context, relation *domain.UserRelation) error {
	ref := r.doc(relation.Kind, relation.UserEmail, relation.Target)
	relation.ID = ref.ID
	_, err := ref.Create(ctx, relation)
	return mapFirestoreErr(err)
}

func (r *userEventRepo) DeleteRelation(ctx context.Context, kind, email, target string) error {
	_, err := r.doc(kind, email, target).Delete(ctx, firestore.Exists)
	return mapFirestoreErr(err)
}

func (r *userEventRepo) HasRelation(ctx context.Context, kind, email, target string) (bool, error) {
	_, err := r.doc(kind, email, target).Get(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(mapFirestoreErr(err), domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (r *userEventRepo) ListRelations(ctx context.Context, kind, email string) ([]domain.UserRelation, error) {
	iter := r.client.Collection(kind).
		Where("user_email", "==", email).
		OrderBy("created_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var relations []domain.UserRelation
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var rel domain.UserRelation
		if err := doc.DataTo(&rel); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", kind, doc.Ref.ID, err)
		}
		relations = append(relations, rel)
	}
	return relations, nil
}
