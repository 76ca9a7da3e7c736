package migration

import (
	"strings"

	"event-discovery/internal/domain"
)

// Browser storage keys written by the single-page app before it had a backend.
const (
	keyEvents          = "eventApp_events"
	keyRegisteredUsers = "eventApp_registeredUsers"
	userKeyPrefix      = "eventApp_user_"
)

// Per-user list suffixes and the relation kind each one becomes.
var userListSuffixes = []struct {
	suffix string
	kind   string
}{
	{"_registeredEvents", domain.RelationRegistration},
	{"_favoriteEvents", domain.RelationFavorite},
	{"_followedOrganizers", domain.RelationFollow},
}

type legacyOrganizer struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	EventsCount int    `json:"eventsCount"`
}

type legacyAgendaItem struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type legacyReview struct {
	User      string `json:"user"`
	Avatar    string `json:"avatar"`
	Rating    int    `json:"rating"`
	Date      string `json:"date"`
	Comment   string `json:"comment"`
	UserEmail string `json:"userEmail"`
}

type legacyEvent struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Date        string             `json:"date"`
	Location    string             `json:"location"`
	Category    string             `json:"category"`
	Attendees   int                `json:"attendees"`
	Price       string             `json:"price"`
	ImageURL    string             `json:"imageUrl"`
	Description string             `json:"description"`
	Organizer   *legacyOrganizer   `json:"organizer"`
	Highlights  []string           `json:"highlights"`
	Agenda      []legacyAgendaItem `json:"agenda"`
	Status      string             `json:"status"`
	CreatedBy   string             `json:"createdBy"`
	Reviews     []legacyReview     `json:"reviews"`
}

// legacyUser is one stored credential. Only the email is read; passwords are
// never imported.
type legacyUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (e legacyEvent) toDomain() domain.Event {
	event := domain.Event{
		ID:          strings.TrimSpace(e.ID),
		Title:       strings.TrimSpace(e.Title),
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
		Location:    e.Location,
		Attendees:   max(e.Attendees, 0),
		Price:       e.Price,
		ImageURL:    e.ImageURL,
		Highlights:  e.Highlights,
		Status:      e.Status,
		CreatedBy:   e.CreatedBy,
	}
	if event.Status == "" {
		event.Status = domain.StatusPublished
	}
	if e.Organizer != nil {
		event.Organizer = &domain.Organizer{
			Name:        e.Organizer.Name,
			Avatar:      e.Organizer.Avatar,
			Description: e.Organizer.Description,
			EventsCount: e.Organizer.EventsCount,
		}
	}
	for _, item := range e.Agenda {
		event.Agenda = append(event.Agenda, domain.AgendaItem(item))
	}
	return event
}

// splitUserKey reads "eventApp_user_<email>_<list>" keys. Emails may contain
// underscores, so the list name is matched from the end.
func splitUserKey(key string) (email, kind string, ok bool) {
	rest, found := strings.CutPrefix(key, userKeyPrefix)
	if !found {
		return "", "", false
	}
	for _, s := range userListSuffixes {
		if email, found := strings.CutSuffix(rest, s.suffix); found && email != "" {
			return email, s.kind, true
		}
	}
	return "", "", false
}
