package repository

import (
	"context"

	"github.com/yukikurage/event-rsvp/internal/database"
	"github.com/yukikurage/event-rsvp/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

// SlugExists reports whether an event already uses slug
func (r *GormEventRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID finds an event by ID with optional preloading
func (r *GormEventRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&event, id).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// FindBySlug finds an event by slug with optional preloading
func (r *GormEventRepository) FindBySlug(ctx context.Context, slug string, preload ...string) (*models.Event, error) {
	var event models.Event
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("slug = ?", slug).First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// List retrieves events ordered by date with optional category filter and pagination
func (r *GormEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	var events []models.Event

	query := r.db.WithContext(ctx).Model(&models.Event{})

	if filter.Category != nil {
		query = query.Where("events.category = ?", *filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("events.date ASC").Order("events.id ASC")

	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	if err := listQuery.Preload("Organizer").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListRSVPedBy lists the events a user has RSVP'd to
func (r *GormEventRepository) ListRSVPedBy(ctx context.Context, userID uint64) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Joins("JOIN event_rsvps ON event_rsvps.event_id = events.id").
		Where("event_rsvps.user_id = ?", userID).
		Order("events.date ASC").
		Preload("Organizer").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Update writes the editable columns only, leaving slug and organizer untouched
func (r *GormEventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).
		Model(event).
		Select("title", "description", "date", "category", "image", "updated_at").
		Updates(event).Error
}

// Delete hard deletes an event and its RSVPs in a transaction
func (r *GormEventRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.RSVP{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Event{}, id).Error
	})
}

// AddRSVP inserts the RSVP row unless it already exists
func (r *GormEventRepository) AddRSVP(ctx context.Context, eventID, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RSVP{EventID: eventID, UserID: userID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListAttendees lists the users who RSVP'd to an event
func (r *GormEventRepository) ListAttendees(ctx context.Context, eventID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN event_rsvps ON event_rsvps.user_id = users.id").
		Where("event_rsvps.event_id = ?", eventID).
		Order("event_rsvps.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
