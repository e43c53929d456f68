package models

import "time"

// RSVP records that a user intends to attend an event. A pair exists at most once.
type RSVP struct {
	EventID   uint64    `gorm:"primarykey" json:"event_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RSVP) TableName() string {
	return "event_rsvps"
}
