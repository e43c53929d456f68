package dto

import (
	"time"

	"github.com/yukikurage/event-rsvp/internal/constants"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/utils"
)

// ImageURLFunc resolves a stored image key to a URL.
type ImageURLFunc func(key string) string

// EventDTO represents an event on rendered pages
type EventDTO struct {
	ID            uint64               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Date          time.Time            `json:"date"`
	DateInput     string               `json:"-"`
	Category      models.EventCategory `json:"category"`
	CategoryLabel string               `json:"category_label"`
	ImageURL      string               `json:"image_url"`
	Slug          string               `json:"slug"`
	Organizer     *UserDTO             `json:"organizer,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// EventDetailDTO is an event with the users who RSVP'd
type EventDetailDTO struct {
	EventDTO
	Attendees []UserDTO `json:"attendees"`
}

// CategoryOption is one entry of a category select box
type CategoryOption struct {
	Value models.EventCategory
	Label string
}

// EventListResponse represents a page of events
type EventListResponse struct {
	Events     []EventDTO               `json:"events"`
	Category   models.EventCategory     `json:"category"`
	Categories []CategoryOption         `json:"-"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Categories lists the selectable event categories
func Categories() []CategoryOption {
	out := make([]CategoryOption, len(models.EventCategories))
	for i, c := range models.EventCategories {
		out[i] = CategoryOption{Value: c, Label: c.Label()}
	}
	return out
}

// ToEventDTO converts an Event model to EventDTO
func ToEventDTO(event models.Event, imageURL ImageURLFunc) EventDTO {
	dto := EventDTO{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Date:          event.Date,
		DateInput:     event.Date.Format(constants.EventDateLayout),
		Category:      event.Category,
		CategoryLabel: event.Category.Label(),
		ImageURL:      imageURL(event.Image),
		Slug:          event.Slug,
		CreatedAt:     event.CreatedAt,
	}

	if event.Organizer != nil {
		organizer := ToUserDTO(*event.Organizer)
		dto.Organizer = &organizer
	}

	return dto
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event, imageURL ImageURLFunc) []EventDTO {
	out := make([]EventDTO, len(events))
	for i, e := range events {
		out[i] = ToEventDTO(e, imageURL)
	}
	return out
}

// ToEventDetailDTO converts an event and its attendees
func ToEventDetailDTO(event models.Event, attendees []models.User, imageURL ImageURLFunc) EventDetailDTO {
	return EventDetailDTO{
		EventDTO:  ToEventDTO(event, imageURL),
		Attendees: ToUserDTOs(attendees),
	}
}

// ToEventListResponse converts a page of events
func ToEventListResponse(events []models.Event, category models.EventCategory, page utils.PaginationResponse, imageURL ImageURLFunc) EventListResponse {
	return EventListResponse{
		Events:     ToEventDTOs(events, imageURL),
		Category:   category,
		Categories: Categories(),
		Pagination: page,
	}
}
