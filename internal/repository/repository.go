package repository

import (
	"context"

	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/utils"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *models.Event) error

	// SlugExists reports whether an event already uses slug
	SlugExists(ctx context.Context, slug string) (bool, error)

	// FindByID finds an event by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Event, error)

	// FindBySlug finds an event by slug with optional preloading
	FindBySlug(ctx context.Context, slug string, preload ...string) (*models.Event, error)

	// List retrieves events with filtering and pagination
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)

	// ListRSVPedBy lists the events a user has RSVP'd to
	ListRSVPedBy(ctx context.Context, userID uint64) ([]models.Event, error)

	// Update saves the editable fields of an event; the slug is never written
	Update(ctx context.Context, event *models.Event) error

	// Delete hard deletes an event and its RSVPs
	Delete(ctx context.Context, id uint64) error

	// AddRSVP records an RSVP; created is false when it already existed
	AddRSVP(ctx context.Context, eventID, userID uint64) (created bool, err error)

	// ListAttendees lists the users who RSVP'd to an event
	ListAttendees(ctx context.Context, eventID uint64) ([]models.User, error)
}

// EventFilter holds filtering options for listing events
// A nil Pagination returns every matching event.
type EventFilter struct {
	Category   *models.EventCategory
	Pagination *utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithGroup creates a user and its membership in the named group
	// (created if missing) within a single transaction.
	CreateWithGroup(ctx context.Context, user *models.User, groupName string) error

	// FindByID finds a user by ID with groups preloaded
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username with groups preloaded
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// List lists all users with groups preloaded
	List(ctx context.Context) ([]models.User, error)

	// Activate sets is_active on a user
	Activate(ctx context.Context, id uint64) error

	// ReplaceGroups makes the named group (created if missing) the user's only group
	ReplaceGroups(ctx context.Context, userID uint64, groupName string) error

	// Delete hard deletes a user with memberships, RSVPs and organized events
	Delete(ctx context.Context, id uint64) error
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// FindOrCreate returns the named group, creating it when missing
	FindOrCreate(ctx context.Context, name string) (group *models.Group, created bool, err error)

	// FindByID finds a group by ID
	FindByID(ctx context.Context, id uint64) (*models.Group, error)

	// List lists all groups ordered by name
	List(ctx context.Context) ([]models.Group, error)

	// Delete deletes a group and its memberships
	Delete(ctx context.Context, id uint64) error
}
