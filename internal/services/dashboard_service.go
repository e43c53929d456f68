package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/repository"
)

// DashboardService gathers the data shown on the role dashboards.
type DashboardService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(eventRepo repository.EventRepository, userRepo repository.UserRepository, groupRepo repository.GroupRepository) *DashboardService {
	return &DashboardService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

type AdminDashboard struct {
	Events []models.Event
	Users  []models.User
	Groups []models.Group
}

// Admin returns every event, user and group.
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	events, _, err := s.eventRepo.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return &AdminDashboard{Events: events, Users: users, Groups: groups}, nil
}

// Organizer returns every event.
func (s *DashboardService) Organizer(ctx context.Context) ([]models.Event, error) {
	events, _, err := s.eventRepo.List(ctx, repository.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Participant returns the events userID has RSVP'd to.
func (s *DashboardService) Participant(ctx context.Context, userID uint64) ([]models.Event, error) {
	events, err := s.eventRepo.ListRSVPedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	return events, nil
}
