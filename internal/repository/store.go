package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// Store hands out the repositories of one backing database.
type Store interface {
	Events() EventRepository
	Reviews() ReviewRepository
	Relations() UserEventRepository
	Close() error
}

var (
	_ Store = (*FirestoreStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// FirestoreStore backs every repository with one Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

func OpenFirestore(ctx context.Context, projectID, databaseID string) (*FirestoreStore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Events() EventRepository { return NewEventRepository(s.client) }
func (s *FirestoreStore) Reviews() ReviewRepository { return NewReviewRepository(s.client) }
func (s *FirestoreStore) Relations() UserEventRepository { return NewUserEventRepository(s.client) }
func (s *FirestoreStore) Close() error { return s.client.Close() }

// Open picks the backing database by driver name ("firestore" or "sqlite").
func Open(ctx context.Context, driver, projectID, databaseID, sqlitePath string) (Store, error) {
	switch driver {
	case "firestore":
		store, err := OpenFirestore(ctx, projectID, databaseID)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sqlite":
		store, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
