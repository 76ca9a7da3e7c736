package repository

import (
	"context"
	"errors"
	"fmt"

	"event-discovery/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const CollectionEvents = "events"

type EventRepository interface {
	List(ctx context.Context, query domain.ListQuery) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Save(ctx context.Context, event *domain.Event) error
	BatchSave(ctx context.Context, events []*domain.Event) error
	// AdjustAttendees adds delta to the attendee count, never going below zero.
	AdjustAttendees(ctx context.Context, id string, delta int) error
}

type eventRepo struct {
	client *firestore.Client
}

func NewEventRepository(client *firestore.Client) EventRepository {
	return &eventRepo{client: client}
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(CollectionEvents).Doc(id).Delete(ctx, firestore.Exists)
	return mapFirestoreErr(err)
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	doc, err := r.client.Collection(CollectionEvents).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreErr(err)
	}
	var event domain.Event
	if err := doc.DataTo(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	_, err := r.client.Collection(CollectionEvents).Doc(id).Update(ctx, toUpdates(updates))
	return mapFirestoreErr(err)
}

func (r *eventRepo) Save(ctx context.Context, event *domain.Event) error {
	_, err := r.client.Collection(CollectionEvents).Doc(event.ID).Create(ctx, event)
	return mapFirestoreErr(err)
}

// BatchSave creates every event through a BulkWriter. Writes are not atomic:
// an existing id fails on its own and all failures are joined.
func (r *eventRepo) BatchSave(ctx context.Context, events []*domain.Event) error {
	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(events))
	for _, event := range events {
		job, err := bw.Create(r.client.Collection(CollectionEvents).Doc(event.ID), event)
		if err != nil {
			bw.End()
			return fmt.Errorf("queue event %s: %w", event.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	var errs []error
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, fmt.Errorf("write event %s: %w", events[i].ID, mapFirestoreErr(err)))
		}
	}
	return errors.Join(errs...)
}

func (r *eventRepo) AdjustAttendees(ctx context.Context, id string, delta int) error {
	ref := r.client.Collection(CollectionEvents).Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var event domain.Event
		if err := doc.DataTo(&event); err != nil {
			return err
		}
		next := event.Attendees + delta
		if next < 0 {
			next = 0
		}
		return tx.Update(ref, []firestore.Update{{Path: "attendees", Value: next}})
	})
	return mapFirestoreErr(err)
}

func (r *eventRepo) List(ctx context.Context, query domain.ListQuery) ([]domain.Event, error) {
	q := r.client.Collection(CollectionEvents).Query

	// Filters
	if query.Status != "" {
		q = q.Where("status", "==", query.Status)
	}
	if query.CreatedBy != "" {
		q = q.Where("created_by", "==", query.CreatedBy)
	}
	if query.Category != "" {
		q = q.Where("category", "==", query.Category)
	}

	// Newest first: discovery treats this as the "latest" order
	q = q.OrderBy("created_at", firestore.Desc)
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var events []domain.Event
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		var e domain.Event
		if err := doc.DataTo(&e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}
