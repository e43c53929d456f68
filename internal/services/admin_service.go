package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/event-rsvp/internal/access"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/logging"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole      = apierrors.Validation("role", apierrors.ErrCodeInvalidInput, "Invalid role specified.")
	ErrEmptyGroupName   = apierrors.Validation("group_name", apierrors.ErrCodeMissingField, "Group name cannot be empty.")
	ErrGroupNotFound    = apierrors.NotFoundError("Group not found.")
	ErrProtectedAccount = apierrors.Permission(apierrors.ErrCodeProtectedAccount, "Cannot delete an admin or organizer account.")
)

// AdminService implements the admin dashboard operations on users and groups.
type AdminService struct {
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository, groupRepo repository.GroupRepository) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

// GetUser retrieves a user by ID with groups.
func (s *AdminService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetGroup retrieves a group by ID.
func (s *AdminService) GetGroup(ctx context.Context, id uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

// ChangeUserRole makes role the user's only group.
func (s *AdminService) ChangeUserRole(ctx context.Context, userID uint64, role string) (*models.User, error) {
	if !isRoleGroup(role) {
		return nil, ErrInvalidRole
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ReplaceGroups(ctx, user.ID, role); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	logging.FromContext(ctx).Info("User role changed", zap.Uint64("user_id", user.ID), zap.String("role", role))
	return s.GetUser(ctx, user.ID)
}

// CreateGroup returns the named group, creating it when missing.
func (s *AdminService) CreateGroup(ctx context.Context, name string) (*models.Group, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyGroupName
	}

	group, created, err := s.groupRepo.FindOrCreate(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create group: %w", err)
	}

	if created {
		logging.FromContext(ctx).Info("Group created", zap.Uint64("group_id", group.ID), zap.String("name", group.Name))
	}
	return group, created, nil
}

// DeleteGroup removes a group and its memberships.
func (s *AdminService) DeleteGroup(ctx context.Context, id uint64) (*models.Group, error) {
	group, err := s.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return nil, fmt.Errorf("failed to delete group: %w", err)
	}

	logging.FromContext(ctx).Info("Group deleted", zap.Uint64("group_id", group.ID), zap.String("name", group.Name))
	return group, nil
}

// DeletableParticipant returns the user if it may be deleted, or ErrProtectedAccount
// for superusers and members of Admin or Organizer.
func (s *AdminService) DeletableParticipant(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanBeDeleted(access.PrincipalFor(user)) {
		logging.FromContext(ctx).Warn("Refused to delete protected account",
			zap.Uint64("user_id", user.ID),
			zap.String("reason", "protected_account"),
		)
		return nil, ErrProtectedAccount
	}
	return user, nil
}

// DeleteParticipant removes a participant with memberships, RSVPs and organized events.
func (s *AdminService) DeleteParticipant(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.DeletableParticipant(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	logging.FromContext(ctx).Info("Participant deleted", zap.Uint64("user_id", user.ID))
	return user, nil
}

func isRoleGroup(name string) bool {
	for _, r := range models.RoleGroupNames {
		if r == name {
			return true
		}
	}
	return false
}
