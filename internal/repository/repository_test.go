package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/event-rsvp/internal/database"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/utils"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

func createEvent(t *testing.T, db *gorm.DB, title, slug string, organizerID *uint64) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:       title,
		Description: "desc",
		Date:        time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC),
		Category:    models.CategoryMusic,
		Image:       "default_event.jpg",
		Slug:        slug,
		OrganizerID: organizerID,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func TestUserRepository_CreateWithGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "x"}
	require.NoError(t, repo.CreateWithGroup(ctx, user, models.GroupParticipant))

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.False(t, found.IsActive)
	require.Equal(t, []string{models.GroupParticipant}, found.GroupNames())
}

func TestUserRepository_CreateWithGroup_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithGroup(ctx, &models.User{Username: "bob", PasswordHash: "x"}, models.GroupParticipant))
	err := repo.CreateWithGroup(ctx, &models.User{Username: "bob", PasswordHash: "y"}, models.GroupParticipant)
	require.ErrorIs(t, err, ErrCreateUser)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_ReplaceGroups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "carol", PasswordHash: "x"}
	require.NoError(t, repo.CreateWithGroup(ctx, user, models.GroupParticipant))
	groups := NewGroupRepository(db)
	extra, _, err := groups.FindOrCreate(ctx, "Volunteers")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.UserGroup{UserID: user.ID, GroupID: extra.ID}).Error)

	require.NoError(t, repo.ReplaceGroups(ctx, user.ID, models.GroupOrganizer))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{models.GroupOrganizer}, found.GroupNames())
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	events := NewEventRepository(db)
	ctx := context.Background()

	owner := &models.User{Username: "owner", PasswordHash: "x"}
	require.NoError(t, repo.CreateWithGroup(ctx, owner, models.GroupParticipant))
	other := &models.User{Username: "other", PasswordHash: "x"}
	require.NoError(t, repo.CreateWithGroup(ctx, other, models.GroupParticipant))

	owned := createEvent(t, db, "Owned", "owned", &owner.ID)
	foreign := createEvent(t, db, "Foreign", "foreign", nil)
	_, err := events.AddRSVP(ctx, owned.ID, other.ID)
	require.NoError(t, err)
	_, err = events.AddRSVP(ctx, foreign.ID, owner.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, owner.ID))

	_, err = repo.FindByID(ctx, owner.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = events.FindByID(ctx, owned.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var rsvps, memberships int64
	require.NoError(t, db.Model(&models.RSVP{}).Count(&rsvps).Error)
	require.NoError(t, db.Model(&models.UserGroup{}).Where("user_id = ?", owner.ID).Count(&memberships).Error)
	require.Zero(t, rsvps)
	require.Zero(t, memberships)
}

func TestGroupRepository_FindOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g, created, err := repo.FindOrCreate(ctx, "Volunteers")
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := repo.FindOrCreate(ctx, "Volunteers")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, g.ID, again.ID)
}

func TestGroupRepository_SeededAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	user := &models.User{Username: "dave", PasswordHash: "x"}
	require.NoError(t, users.CreateWithGroup(ctx, user, "Volunteers"))
	g, _, err := repo.FindOrCreate(ctx, "Volunteers")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, g.ID))

	found, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, found.Groups)
}

func TestEventRepository_AddRSVPIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "erin", PasswordHash: "x"}
	require.NoError(t, users.CreateWithGroup(ctx, user, models.GroupParticipant))
	event := createEvent(t, db, "Gig", "gig", nil)

	created, err := events.AddRSVP(ctx, event.ID, user.ID)
	require.NoError(t, err)
	require.True(t, created)

	created, err = events.AddRSVP(ctx, event.ID, user.ID)
	require.NoError(t, err)
	require.False(t, created)

	attendees, err := events.ListAttendees(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)

	rsvped, err := events.ListRSVPedBy(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rsvped, 1)
	require.Equal(t, event.ID, rsvped[0].ID)
}

func TestEventRepository_UpdateKeepsSlug(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)
	ctx := context.Background()

	event := createEvent(t, db, "Old Title", "old-title", nil)
	event.Title = "New Title"
	event.Slug = "new-title"
	require.NoError(t, events.Update(ctx, event))

	found, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "New Title", found.Title)
	require.Equal(t, "old-title", found.Slug)
}

func TestEventRepository_ListFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)
	ctx := context.Background()

	for i, slug := range []string{"a", "b", "c"} {
		e := createEvent(t, db, slug, slug, nil)
		if i == 2 {
			require.NoError(t, db.Model(e).Update("category", models.CategoryArt).Error)
		}
	}

	art := models.CategoryArt
	list, total, err := events.List(ctx, EventFilter{Category: &art})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, list, 1)

	list, total, err = events.List(ctx, EventFilter{Pagination: &utils.PaginationParams{Page: 2, Limit: 2, Offset: 2}})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, list, 1)
}

func TestEventRepository_DeleteRemovesRSVPs(t *testing.T) {
	db := setupTestDB(t)
	events := NewEventRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "frank", PasswordHash: "x"}
	require.NoError(t, users.CreateWithGroup(ctx, user, models.GroupParticipant))
	event := createEvent(t, db, "Gig", "gig", nil)
	_, err := events.AddRSVP(ctx, event.ID, user.ID)
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, event.ID))

	var count int64
	require.NoError(t, db.Model(&models.RSVP{}).Where("event_id = ?", event.ID).Count(&count).Error)
	require.Zero(t, count)
}
