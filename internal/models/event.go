package models

import (
	"time"
)

type EventCategory string

const (
	CategoryMusic  EventCategory = "music"
	CategorySports EventCategory = "sports"
	CategoryTech   EventCategory = "tech"
	CategoryArt    EventCategory = "art"
)

// EventCategories lists the categories in display order.
var EventCategories = []EventCategory{CategoryMusic, CategorySports, CategoryTech, CategoryArt}

var categoryLabels = map[EventCategory]string{
	CategoryMusic:  "Music",
	CategorySports: "Sports",
	CategoryTech:   "Technology",
	CategoryArt:    "Art",
}

// Label returns the human readable category name.
func (c EventCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c EventCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

type Event struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Date        time.Time     `gorm:"not null" json:"date"`
	Category    EventCategory `gorm:"type:varchar(50);not null;default:'music'" json:"category"`
	Image       string        `gorm:"type:varchar(255);not null;default:'default_event.jpg'" json:"image"`
	OrganizerID *uint64       `json:"organizer_id"`
	Slug        string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Organizer *User  `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Attendees []User `gorm:"many2many:event_rsvps" json:"attendees,omitempty"`
}
