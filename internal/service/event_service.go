package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"event-discovery/internal/auth"
	"event-discovery/internal/discovery"
	"event-discovery/internal/domain"
	"event-discovery/internal/repository"

	"github.com/google/uuid"
)

// Clock returns the current time in the zone event dates are written in.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// DiscoverRequest is one discovery pass plus the page to return.
type DiscoverRequest struct {
	Criteria  discovery.Criteria
	PageSize  int
	PageToken string
}

type DiscoverResult struct {
	Events        []domain.Event
	Total         int
	NextPageToken string
	Facets        domain.Facets
}

type EventService interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	UpdateEvent(ctx context.Context, id string, updates map[string]interface{}) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	BatchCreateEvents(ctx context.Context, events []*domain.Event) error
	DiscoverEvents(ctx context.Context, req DiscoverRequest) (*DiscoverResult, error)
	ListUserEvents(ctx context.Context, email, status string) ([]domain.Event, error)
	Facets(ctx context.Context) (domain.Facets, error)
}

type eventService struct {
	repo  repository.EventRepository
	clock Clock
}

func NewEventService(repo repository.EventRepository, clock Clock) EventService {
	return &eventService{repo: repo, clock: clock}
}

func (s *eventService) prepare(event *domain.Event, now time.Time) error {
	if strings.TrimSpace(event.Title) == "" {
		return domain.ErrValidation("event title is required")
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now.UTC()
	}
	if event.Status == "" {
		event.Status = domain.StatusPublished
	}
	if event.Attendees < 0 {
		event.Attendees = 0
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if err := s.prepare(event, s.clock.now()); err != nil {
		return err
	}
	return s.repo.Save(ctx, event)
}

func (s *eventService) BatchCreateEvents(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return domain.ErrValidation("no events to create")
	}

	now := s.clock.now()
	for i, event := range events {
		if err := s.prepare(event, now); err != nil {
			return domain.ErrValidation(fmt.Sprintf("item %d: %v", i, err))
		}
	}
	return s.repo.BatchSave(ctx, events)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return domain.ErrValidation("id is required for update")
	}

	// identity and ownership fields are never client-writable
	delete(updates, "id")
	delete(updates, "created_by")
	delete(updates, "created_at")

	if len(updates) == 0 {
		return domain.ErrValidation("no fields to update")
	}
	clean, err := sanitizeUpdates(updates)
	if err != nil {
		return err
	}
	if err := s.authorizeOwner(ctx, id); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, clean)
}

// authorizeOwner lets the caller change an event only if they created it.
// Events without a recorded creator (seeded or imported) are open to any
// signed-in user.
func (s *eventService) authorizeOwner(ctx context.Context, id string) error {
	email := auth.Email(ctx)
	if email == "" {
		return domain.ErrUnauthorized
	}
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatedBy != "" && event.CreatedBy != email {
		return domain.ErrForbidden
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, domain.ErrValidation("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrValidation("id is required")
	}
	if err := s.authorizeOwner(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *eventService) DiscoverEvents(ctx context.Context, req DiscoverRequest) (*DiscoverResult, error) {
	all, err := s.repo.List(ctx, domain.ListQuery{Status: domain.StatusPublished})
	if err != nil {
		return nil, fmt.Errorf("list published events: %w", err)
	}

	matched := discovery.FilterAndSort(all, req.Criteria, s.clock.now())
	page, next, err := discovery.Paginate(matched, req.PageSize, req.PageToken)
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = []domain.Event{}
	}
	return &DiscoverResult{
		Events:        page,
		Total:         len(matched),
		NextPageToken: next,
		Facets:        discovery.CountFacets(all),
	}, nil
}

func (s *eventService) ListUserEvents(ctx context.Context, email, status string) ([]domain.Event, error) {
	if email == "" {
		return nil, domain.ErrUnauthorized
	}
	switch status {
	case "", domain.StatusPublished, domain.StatusDraft:
	default:
		return nil, domain.ErrValidation("status must be draft or published")
	}
	return s.repo.List(ctx, domain.ListQuery{CreatedBy: email, Status: status})
}

func (s *eventService) Facets(ctx context.Context) (domain.Facets, error) {
	all, err := s.repo.List(ctx, domain.ListQuery{Status: domain.StatusPublished})
	if err != nil {
		return domain.Facets{}, fmt.Errorf("list published events: %w", err)
	}
	return discovery.CountFacets(all), nil
}

var stringFields = map[string]string{
	"title":       "required,max=200",
	"description": "max=5000",
	"category":    "required",
	"date":        "required,cndate",
	"time":        "",
	"location":    "required",
	"address":     "",
	"price":       "required,pricelabel",
	"image_url":   "omitempty,url",
	"status":      "oneof=draft published",
}

// sanitizeUpdates keeps only known event fields and coerces decoded JSON
// values into the types the stores expect.
func sanitizeUpdates(updates map[string]interface{}) (map[string]interface{}, error) {
	clean := make(map[string]interface{}, len(updates))
	for field, value := range updates {
		if rule, ok := stringFields[field]; ok {
			str, ok := value.(string)
			if !ok {
				return nil, domain.ErrValidation(field + " must be a string")
			}
			str = strings.TrimSpace(str)
			if rule != "" {
				if err := domain.Validate.Var(str, rule); err != nil {
					return nil, domain.ErrValidation(fmt.Sprintf("%s: invalid value", field))
				}
			}
			clean[field] = str
			continue
		}

		switch field {
		case "attendees", "capacity":
			n, ok := toInt(value)
			if !ok || n < 0 {
				return nil, domain.ErrValidation(field + " must be a non-negative integer")
			}
			clean[field] = n
		case "highlights":
			items, ok := value.([]interface{})
			if !ok {
				return nil, domain.ErrValidation("highlights must be a list of strings")
			}
			out := make([]string, 0, len(items))
			for _, item := range items {
				str, ok := item.(string)
				if !ok {
					return nil, domain.ErrValidation("highlights must be a list of strings")
				}
				out = append(out, str)
			}
			clean[field] = out
		case "organizer":
			organizer, err := decodeOrganizer(value)
			if err != nil {
				return nil, err
			}
			clean[field] = organizer
		case "agenda":
			agenda, err := decodeAgenda(value)
			if err != nil {
				return nil, err
			}
			clean[field] = agenda
		default:
			return nil, domain.ErrValidation("unknown field: " + field)
		}
	}
	return clean, nil
}

// redecode moves a decoded JSON value into a typed DTO.
func redecode(value interface{}, dst interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// decodeOrganizer accepts an organizer object, or null to clear it.
func decodeOrganizer(value interface{}) (*domain.Organizer, error) {
	if value == nil {
		return nil, nil
	}
	var dto domain.OrganizerDTO
	if _, ok := value.(map[string]interface{}); !ok || redecode(value, &dto) != nil {
		return nil, domain.ErrValidation("organizer must be an object")
	}
	if err := domain.Validate.Struct(dto); err != nil {
		return nil, domain.ErrValidation("organizer: " + err.Error())
	}
	return &domain.Organizer{
		Name:        strings.TrimSpace(dto.Name),
		Avatar:      dto.Avatar,
		Description: dto.Description,
		EventsCount: dto.EventsCount,
	}, nil
}

func decodeAgenda(value interface{}) ([]domain.AgendaItem, error) {
	var items []domain.AgendaItemDTO
	if value != nil {
		if _, ok := value.([]interface{}); !ok || redecode(value, &items) != nil {
			return nil, domain.ErrValidation("agenda must be a list of items")
		}
	}
	agenda := make([]domain.AgendaItem, 0, len(items))
	for i, item := range items {
		if err := domain.Validate.Struct(item); err != nil {
			return nil, domain.ErrValidation(fmt.Sprintf("agenda item %d: %v", i, err))
		}
		agenda = append(agenda, domain.AgendaItem{
			Time:        item.Time,
			Title:       item.Title,
			Description: item.Description,
		})
	}
	return agenda, nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
