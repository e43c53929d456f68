package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/repository"
)

func TestDashboardService(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	groups := repository.NewGroupRepository(db)
	service := NewDashboardService(events, users, groups)

	participant := &models.User{Username: "p", PasswordHash: "x"}
	require.NoError(t, users.CreateWithGroup(ctx, participant, models.GroupParticipant))

	for _, slug := range []string{"later", "sooner"} {
		date := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
		if slug == "sooner" {
			date = date.AddDate(0, -1, 0)
		}
		require.NoError(t, events.Create(ctx, &models.Event{Title: slug, Description: "d", Date: date, Category: models.CategoryMusic, Image: "default_event.jpg", Slug: slug}))
	}
	later, err := events.FindBySlug(ctx, "later")
	require.NoError(t, err)
	_, err = events.AddRSVP(ctx, later.ID, participant.ID)
	require.NoError(t, err)

	admin, err := service.Admin(ctx)
	require.NoError(t, err)
	assert.Len(t, admin.Events, 2)
	assert.Equal(t, "sooner", admin.Events[0].Slug)
	assert.Len(t, admin.Users, 1)
	assert.Len(t, admin.Groups, 3)

	organizer, err := service.Organizer(ctx)
	require.NoError(t, err)
	assert.Len(t, organizer, 2)

	mine, err := service.Participant(ctx, participant.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "later", mine[0].Slug)
}
