package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/event-rsvp/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository is a GORM implementation of GroupRepository
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// FindOrCreate returns the named group, creating it when missing
func (r *GormGroupRepository) FindOrCreate(ctx context.Context, name string) (*models.Group, bool, error) {
	return findOrCreateGroup(r.db.WithContext(ctx), name)
}

// findOrCreateGroup inserts the group if absent and reads it back, so concurrent
// callers agree on one row.
func findOrCreateGroup(db *gorm.DB, name string) (*models.Group, bool, error) {
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Group{Name: name})
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		return nil, false, result.Error
	}

	var group models.Group
	if err := db.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, false, err
	}
	return &group, result.Error == nil && result.RowsAffected > 0, nil
}

// FindByID finds a group by ID
func (r *GormGroupRepository) FindByID(ctx context.Context, id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// List lists all groups ordered by name
func (r *GormGroupRepository) List(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete deletes a group and its memberships in a transaction
func (r *GormGroupRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Group{}, id).Error
	})
}
