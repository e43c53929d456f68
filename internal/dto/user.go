package dto

import (
	"github.com/yukikurage/event-rsvp/internal/access"
	"github.com/yukikurage/event-rsvp/internal/models"
)

// UserDTO represents a user on rendered pages
type UserDTO struct {
	ID           uint64   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Role         string   `json:"role"`
	Groups       []string `json:"groups"`
	IsActive     bool     `json:"is_active"`
	IsSuperuser  bool     `json:"is_superuser"`
	CanBeDeleted bool     `json:"can_be_deleted"`
}

// GroupDTO represents a group on the admin dashboard
type GroupDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	BuiltIn bool   `json:"built_in"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	principal := access.PrincipalFor(&user)
	return UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName(),
		Role:         string(principal.Role()),
		Groups:       user.GroupNames(),
		IsActive:     user.IsActive,
		IsSuperuser:  user.IsSuperuser,
		CanBeDeleted: access.CanBeDeleted(principal),
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToGroupDTOs converts a slice of groups
func ToGroupDTOs(groups []models.Group) []GroupDTO {
	out := make([]GroupDTO, len(groups))
	for i, g := range groups {
		out[i] = GroupDTO{ID: g.ID, Name: g.Name}
		for _, name := range models.RoleGroupNames {
			if g.Name == name {
				out[i].BuiltIn = true
			}
		}
	}
	return out
}
