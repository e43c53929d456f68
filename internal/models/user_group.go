package models

import "time"

// UserGroup is the join row between users and groups. Group membership decides a user's role.
type UserGroup struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	GroupID   uint64    `gorm:"primarykey" json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserGroup) TableName() string {
	return "user_groups"
}
