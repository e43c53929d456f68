package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/event-rsvp/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrAssignGroup is returned when adding the user to its group fails inside the signup transaction.
	ErrAssignGroup = errors.New("user repository: assign group failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithGroup creates a user and its group membership atomically.
func (r *GormUserRepository) CreateWithGroup(ctx context.Context, user *models.User, groupName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, err)
		}

		group, _, err := findOrCreateGroup(tx, groupName)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAssignGroup, err)
		}

		if err := tx.Create(&models.UserGroup{UserID: user.ID, GroupID: group.ID}).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrAssignGroup, err)
		}

		user.Groups = []models.Group{*group}
		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Groups").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Groups").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists all users ordered by username
func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Preload("Groups").Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Activate sets is_active on a user. Activating an active user changes nothing.
func (r *GormUserRepository) Activate(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", true).Error
}

// ReplaceGroups clears the user's memberships and adds the named group in one transaction.
func (r *GormUserRepository) ReplaceGroups(ctx context.Context, userID uint64, groupName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, _, err := findOrCreateGroup(tx, groupName)
		if err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Create(&models.UserGroup{UserID: userID, GroupID: group.ID}).Error
	})
}

// Delete removes a user. Events the user organizes go with it, as do all RSVP and membership rows.
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		organized := tx.Model(&models.Event{}).Select("id").Where("organizer_id = ?", id)
		if err := tx.Where("event_id IN (?)", organized).Delete(&models.RSVP{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organizer_id = ?", id).Delete(&models.Event{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.RSVP{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}
