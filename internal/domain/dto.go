package domain

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate = newValidator()

var (
	dateLabelPattern  = regexp.MustCompile(`^[0-9]+年[0-9]+月[0-9]+日`)
	priceDigitPattern = regexp.MustCompile(`[0-9]`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	// cndate: "2025年7月15日", optionally followed by a time or range after a space
	_ = v.RegisterValidation("cndate", func(fl validator.FieldLevel) bool {
		return dateLabelPattern.MatchString(fl.Field().String())
	})
	// pricelabel: the free label, or any label carrying a number such as "¥199起"
	_ = v.RegisterValidation("pricelabel", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == FreePriceLabel || priceDigitPattern.MatchString(s)
	})
	return v
}

type OrganizerDTO struct {
	Name        string `json:"name" validate:"required"`
	Avatar      string `json:"avatar" validate:"omitempty,url"`
	Description string `json:"description"`
	EventsCount int    `json:"events_count" validate:"gte=0"`
}

type AgendaItemDTO struct {
	Time        string `json:"time" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// EventDTO is used for API input when creating events
type EventDTO struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required"`
	Date        string          `json:"date" validate:"required,cndate"`
	Time        string          `json:"time"`
	Location    string          `json:"location" validate:"required"`
	Address     string          `json:"address"`
	Attendees   int             `json:"attendees" validate:"gte=0"`
	Capacity    int             `json:"capacity" validate:"gte=0"`
	Price       string          `json:"price" validate:"required,pricelabel"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Organizer   *OrganizerDTO   `json:"organizer" validate:"omitempty"`
	Highlights  []string        `json:"highlights"`
	Agenda      []AgendaItemDTO `json:"agenda" validate:"dive"`
	Status      string          `json:"status" validate:"omitempty,oneof=draft published"`
}

// BatchEventRequest wraps several events for one import call
type BatchEventRequest struct {
	Events []EventDTO `json:"events" validate:"required,min=1,max=500,dive"`
}

type ReviewDTO struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// DiscoverQueryDTO mirrors the discovery query string before conversion
type DiscoverQueryDTO struct {
	Query      string   `validate:"max=200"`
	City       string   `validate:"max=100"`
	Date       string   `validate:"omitempty,datetime=2006-01-02"`
	Categories []string `validate:"dive,required"`
	Cities     []string `validate:"dive,required"`
	DateRanges []string `validate:"dive,oneof=today this_week this_month next_month 今天 本周 本月 下个月"`
	MinPrice   *int     `validate:"omitempty,gte=0"`
	MaxPrice   *int     `validate:"omitempty,gte=0"`
	FreeOnly   bool
	Sort       string `validate:"omitempty,oneof=latest popular date price-low price-high"`
	PageSize   int    `validate:"gte=1,lte=100"`
	PageToken  string
}

func EventDTOToModel(dto *EventDTO) (*Event, error) {
	if strings.TrimSpace(dto.Title) == "" {
		return nil, ErrValidation("title must not be blank")
	}
	if dto.Capacity > 0 && dto.Attendees > dto.Capacity {
		return nil, ErrValidation("attendees cannot exceed capacity")
	}

	event := &Event{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Category:    strings.TrimSpace(dto.Category),
		Date:        strings.TrimSpace(dto.Date),
		Time:        dto.Time,
		Location:    strings.TrimSpace(dto.Location),
		Address:     dto.Address,
		Attendees:   dto.Attendees,
		Capacity:    dto.Capacity,
		Price:       strings.TrimSpace(dto.Price),
		ImageURL:    dto.ImageURL,
		Highlights:  dto.Highlights,
		Status:      dto.Status,
	}
	if dto.Organizer != nil {
		event.Organizer = &Organizer{
			Name:        dto.Organizer.Name,
			Avatar:      dto.Organizer.Avatar,
			Description: dto.Organizer.Description,
			EventsCount: dto.Organizer.EventsCount,
		}
	}
	for _, item := range dto.Agenda {
		event.Agenda = append(event.Agenda, AgendaItem{
			Time:        item.Time,
			Title:       item.Title,
			Description: item.Description,
		})
	}
	return event, nil
}
