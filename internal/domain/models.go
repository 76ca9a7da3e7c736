package domain

import (
	"time"
)

// FreePriceLabel is the display price of an event that costs nothing.
const FreePriceLabel = "免费"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Event represents the database entity and the DTO
type Event struct {
	ID          string       `json:"id" firestore:"id"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description,omitempty" firestore:"description"`
	Category    string       `json:"category" firestore:"category"`
	Date        string       `json:"date" firestore:"date"` // e.g. "2025年7月15日 14:00"
	Time        string       `json:"time,omitempty" firestore:"time"`
	Location    string       `json:"location" firestore:"location"`
	Address     string       `json:"address,omitempty" firestore:"address"`
	Attendees   int          `json:"attendees" firestore:"attendees"`
	Capacity    int          `json:"capacity,omitempty" firestore:"capacity"`
	Price       string       `json:"price" firestore:"price"` // "免费" or "¥199起"
	ImageURL    string       `json:"image_url,omitempty" firestore:"image_url"`
	Organizer   *Organizer   `json:"organizer,omitempty" firestore:"organizer"`
	Highlights  []string     `json:"highlights,omitempty" firestore:"highlights"`
	Agenda      []AgendaItem `json:"agenda,omitempty" firestore:"agenda"`
	Status      string       `json:"status" firestore:"status"`
	CreatedBy   string       `json:"created_by,omitempty" firestore:"created_by"`
	CreatedAt   time.Time    `json:"created_at" firestore:"created_at"`
}

type Organizer struct {
	Name        string `json:"name" firestore:"name"`
	Avatar      string `json:"avatar,omitempty" firestore:"avatar"`
	Description string `json:"description,omitempty" firestore:"description"`
	EventsCount int    `json:"events_count" firestore:"events_count"`
}

type AgendaItem struct {
	Time        string `json:"time" firestore:"time"`
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description,omitempty" firestore:"description"`
}

// Review is one user's rating of an event. A user reviews an event at most once.
type Review struct {
	ID         string    `json:"id" firestore:"id"`
	EventID    string    `json:"event_id" firestore:"event_id"`
	UserEmail  string    `json:"user_email" firestore:"user_email"`
	UserName   string    `json:"user_name" firestore:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty" firestore:"user_avatar"`
	Rating     int       `json:"rating" firestore:"rating"`
	Comment    string    `json:"comment,omitempty" firestore:"comment"`
	CreatedAt  time.Time `json:"created_at" firestore:"created_at"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Relation kinds stored by the user event repository.
const (
	RelationRegistration = "registrations"
	RelationFavorite     = "favorites"
	RelationFollow       = "follows"
)

// UserRelation links a user (by email) to an event or, for follows, an organizer name.
type UserRelation struct {
	ID        string    `json:"id" firestore:"id"`
	Kind      string    `json:"kind" firestore:"kind"`
	UserEmail string    `json:"user_email" firestore:"user_email"`
	Target    string    `json:"target" firestore:"target"`
	CreatedAt time.Time `json:"created_at" firestore:"created_at"`
}

// UserEventStatus describes how the current user relates to one event.
type UserEventStatus struct {
	Registered bool `json:"registered"`
	Favorited  bool `json:"favorited"`
	Reviewed   bool `json:"reviewed"`
}

// ListQuery narrows a repository listing. Results are ordered newest first.
type ListQuery struct {
	Status    string
	CreatedBy string
	Category  string
	Limit     int
}

// APIResponse is a standard wrapper for responses
type APIResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
}

// Meta carries pagination and facet data for discovery listings.
type Meta struct {
	Total         int     `json:"total"`
	NextPageToken string  `json:"next_page_token,omitempty"`
	Facets        *Facets `json:"facets,omitempty"`
}

// Facets holds per-value event counts over the whole published collection.
type Facets struct {
	Categories map[string]int `json:"categories"`
	Cities     map[string]int `json:"cities"`
}
