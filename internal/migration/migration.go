// Package migration imports data the single-page app kept in browser storage.
package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"event-discovery/internal/domain"
	"event-discovery/internal/repository"
)

// Summary counts what an import wrote, or would write on a dry run.
type Summary struct {
	Users         int      `json:"users"`
	Events        int      `json:"events"`
	Reviews       int      `json:"reviews"`
	Registrations int      `json:"registrations"`
	Favorites     int      `json:"favorites"`
	Follows       int      `json:"follows"`
	Skipped       int      `json:"skipped"`
	Errors        []string `json:"errors,omitempty"`
}

func (s *Summary) fail(format string, args ...any) {
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

type Importer struct {
	events    repository.EventRepository
	reviews   repository.ReviewRepository
	relations repository.UserEventRepository
	logger    *slog.Logger
	now       func() time.Time
	dryRun    bool
}

type Option func(*Importer)

// WithDryRun parses and counts without writing.
func WithDryRun(dryRun bool) Option {
	return func(i *Importer) { i.dryRun = dryRun }
}

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) { i.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(i *Importer) { i.now = now }
}

func NewImporter(events repository.EventRepository, reviews repository.ReviewRepository, relations repository.UserEventRepository, opts ...Option) *Importer {
	i := &Importer{
		events:    events,
		reviews:   reviews,
		relations: relations,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads a JSON object of storage keys and writes its contents through
// the repositories. Records that already exist are skipped. Per-record
// failures are collected in the summary; only unreadable input is an error.
//
// Registrations are stored as relations only: the attendee counts in the
// exported events already include them.
func (i *Importer) Import(ctx context.Context, raw []byte) (*Summary, error) {
	var storage map[string]json.RawMessage
	if err := json.Unmarshal(raw, &storage); err != nil {
		return nil, fmt.Errorf("decode storage dump: %w", err)
	}

	summary := &Summary{}
	users := map[string]struct{}{}

	if data, ok := storage[keyRegisteredUsers]; ok {
		var accounts []legacyUser
		if err := json.Unmarshal(data, &accounts); err != nil {
			summary.fail("%s: %v", keyRegisteredUsers, err)
		}
		for _, a := range accounts {
			if email := strings.TrimSpace(a.Email); email != "" {
				users[email] = struct{}{}
			}
		}
	}

	if data, ok := storage[keyEvents]; ok {
		var events []legacyEvent
		if err := json.Unmarshal(data, &events); err != nil {
			summary.fail("%s: %v", keyEvents, err)
		}
		i.importEvents(ctx, events, summary)
	}

	// Map order is random; sort so runs are reproducible.
	keys := make([]string, 0, len(storage))
	for k := range storage {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		email, kind, ok := splitUserKey(key)
		if !ok {
			continue
		}
		users[email] = struct{}{}
		var targets []string
		if err := json.Unmarshal(storage[key], &targets); err != nil {
			summary.fail("%s: %v", key, err)
			continue
		}
		i.importRelations(ctx, kind, email, targets, summary)
	}

	summary.Users = len(users)
	i.logger.InfoContext(ctx, "import finished",
		"dry_run", i.dryRun,
		"events", summary.Events,
		"reviews", summary.Reviews,
		"registrations", summary.Registrations,
		"favorites", summary.Favorites,
		"follows", summary.Follows,
		"skipped", summary.Skipped,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

func (i *Importer) importEvents(ctx context.Context, events []legacyEvent, summary *Summary) {
	base := i.now().UTC()
	for idx, legacy := range events {
		event := legacy.toDomain()
		if event.ID == "" || event.Title == "" {
			summary.fail("event #%d: id and title are required", idx)
			continue
		}
		// The first stored event is the newest one.
		event.CreatedAt = base.Add(-time.Duration(idx) * time.Millisecond)

		if err := i.write(func() error { return i.events.Save(ctx, &event) }); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				summary.Skipped++
			} else {
				summary.fail("event %s: %v", event.ID, err)
				continue
			}
		} else {
			summary.Events++
		}

		for _, r := range legacy.Reviews {
			i.importReview(ctx, event.ID, r, event.CreatedAt, summary)
		}
	}
}

func (i *Importer) importReview(ctx context.Context, eventID string, legacy legacyReview, fallback time.Time, summary *Summary) {
	email := strings.TrimSpace(legacy.UserEmail)
	if email == "" {
		// One review per user needs an owner to key on.
		summary.Skipped++
		return
	}
	if legacy.Rating < 1 || legacy.Rating > 5 {
		summary.fail("review %s/%s: rating %d out of range", eventID, email, legacy.Rating)
		return
	}
	createdAt := fallback
	if t, err := time.Parse(time.DateOnly, strings.TrimSpace(legacy.Date)); err == nil {
		createdAt = t.UTC()
	}
	name := legacy.User
	if name == "" {
		name = email
	}
	review := &domain.Review{
		EventID:    eventID,
		UserEmail:  email,
		UserName:   name,
		UserAvatar: legacy.Avatar,
		Rating:     legacy.Rating,
		Comment:    legacy.Comment,
		CreatedAt:  createdAt,
	}
	switch err := i.write(func() error { return i.reviews.SaveReview(ctx, review) }); {
	case err == nil:
		summary.Reviews++
	case errors.Is(err, domain.ErrConflict):
		summary.Skipped++
	default:
		summary.fail("review %s/%s: %v", eventID, email, err)
	}
}

func (i *Importer) importRelations(ctx context.Context, kind, email string, targets []string, summary *Summary) {
	now := i.now().UTC()
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		relation := &domain.UserRelation{
			Kind:      kind,
			UserEmail: email,
			Target:    target,
			CreatedAt: now,
		}
		err := i.write(func() error { return i.relations.SaveRelation(ctx, relation) })
		switch {
		case err == nil:
			summary.count(kind)
		case errors.Is(err, domain.ErrConflict):
			summary.Skipped++
		default:
			summary.fail("%s %s/%s: %v", kind, email, target, err)
		}
	}
}

func (s *Summary) count(kind string) {
	switch kind {
	case domain.RelationRegistration:
		s.Registrations++
	case domain.RelationFavorite:
		s.Favorites++
	case domain.RelationFollow:
		s.Follows++
	}
}

func (i *Importer) write(fn func() error) error {
	if i.dryRun {
		return nil
	}
	return fn()
}
