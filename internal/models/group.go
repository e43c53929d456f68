package models

import "time"

// Built-in role group names.
const (
	GroupAdmin       = "Admin"
	GroupOrganizer   = "Organizer"
	GroupParticipant = "Participant"
)

// RoleGroupNames are the groups change_role accepts and migrations seed.
var RoleGroupNames = []string{GroupAdmin, GroupOrganizer, GroupParticipant}

type Group struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
