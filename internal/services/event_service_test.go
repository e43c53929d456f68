package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/repository"
	"github.com/yukikurage/event-rsvp/internal/storage"
	"github.com/yukikurage/event-rsvp/internal/utils"
	"gorm.io/gorm"
)

// EventServiceTestSuite defines the test suite for EventService
type EventServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	events   repository.EventRepository
	users    repository.UserRepository
	images   *storage.MemoryStore
	notifier *fakeNotifier
	service  *EventService
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.ctx = context.Background()
	suite.events = repository.NewEventRepository(suite.db)
	suite.users = repository.NewUserRepository(suite.db)
	suite.images = storage.NewMemoryStore()
	suite.notifier = &fakeNotifier{}
	suite.service = NewEventService(suite.events, suite.images, suite.notifier)
}

func (suite *EventServiceTestSuite) createUser(username, group string) *models.User {
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x", IsActive: true}
	suite.Require().NoError(suite.users.CreateWithGroup(suite.ctx, user, group))
	return user
}

func eventInput(title string) EventInput {
	return EventInput{
		Title:       title,
		Description: "An evening of fun",
		Date:        "2030-06-01T19:30",
		Category:    "music",
	}
}

func (suite *EventServiceTestSuite) TestCreate_DefaultsAndOrganizer() {
	organizer := suite.createUser("org", models.GroupOrganizer)

	event, err := suite.service.Create(suite.ctx, eventInput("Launch Party"), organizer)
	suite.Require().NoError(err)

	suite.Equal("launch-party", event.Slug)
	suite.Equal(constants.DefaultEventImage, event.Image)
	suite.Require().NotNil(event.OrganizerID)
	suite.Equal(organizer.ID, *event.OrganizerID)
	suite.Equal(19, event.Date.Hour())
}

func (suite *EventServiceTestSuite) TestCreate_DuplicateTitlesGetDistinctSlugs() {
	first, err := suite.service.Create(suite.ctx, eventInput("Launch Party"), nil)
	suite.Require().NoError(err)
	second, err := suite.service.Create(suite.ctx, eventInput("Launch Party"), nil)
	suite.Require().NoError(err)
	third, err := suite.service.Create(suite.ctx, eventInput("Launch   Party!"), nil)
	suite.Require().NoError(err)

	suite.Equal("launch-party", first.Slug)
	suite.Equal("launch-party-2", second.Slug)
	suite.Equal("launch-party-3", third.Slug)
}

func (suite *EventServiceTestSuite) TestCreate_Validation() {
	in := eventInput("")
	in.Date = "06/01/2030"
	in.Category = "cooking"
	in.Description = ""

	_, err := suite.service.Create(suite.ctx, in, nil)
	suite.Require().Error(err)

	fields := apierrors.Fields(err)
	suite.Contains(fields, "title")
	suite.Contains(fields, "description")
	suite.Contains(fields, "date")
	suite.Contains(fields, "category")
}

func (suite *EventServiceTestSuite) TestCreate_StoresImage() {
	in := eventInput("Art Show")
	in.Image = imageUpload("poster.png", "image/png", pngBytes)

	event, err := suite.service.Create(suite.ctx, in, nil)
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(event.Image, constants.EventImageFolder+"/"))
	suite.True(suite.images.Has(event.Image))
}

func (suite *EventServiceTestSuite) TestCreate_RejectsNonImage() {
	in := eventInput("Art Show")
	in.Image = imageUpload("notes.txt", "text/plain", []byte("txt"))

	_, err := suite.service.Create(suite.ctx, in, nil)
	suite.Contains(apierrors.Fields(err), "image")
}

func (suite *EventServiceTestSuite) TestCreate_RejectsDisguisedImage() {
	in := eventInput("Script Night")
	in.Image = imageUpload("poster.png", "image/png", []byte("<html><script>alert(1)</script></html>"))

	_, err := suite.service.Create(suite.ctx, in, nil)
	suite.Require().Error(err)
	suite.Contains(apierrors.Fields(err)["image"], "not an image")

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Event{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *EventServiceTestSuite) TestCreate_StoresDetectedType() {
	in := eventInput("Photo Walk")
	in.Image = imageUpload("photo.png", "image/png", jpegBytes)

	event, err := suite.service.Create(suite.ctx, in, nil)
	suite.Require().NoError(err)
	suite.True(strings.HasSuffix(event.Image, ".jpg"))
	suite.True(suite.images.Has(event.Image))
}

func (suite *EventServiceTestSuite) TestCreate_TitleLengthCountsCharacters() {
	event, err := suite.service.Create(suite.ctx, eventInput(strings.Repeat("é", 200)), nil)
	suite.Require().NoError(err)
	suite.Equal(strings.Repeat("é", 200), event.Title)
	suite.NotEmpty(event.Slug)

	_, err = suite.service.Create(suite.ctx, eventInput(strings.Repeat("é", 256)), nil)
	suite.Equal("Ensure this value has at most 255 characters.", apierrors.Fields(err)["title"])
}

func (suite *EventServiceTestSuite) TestUpdate_KeepsSlugAndImage() {
	event, err := suite.service.Create(suite.ctx, eventInput("Old Title"), nil)
	suite.Require().NoError(err)

	in := eventInput("Brand New Title")
	in.Category = "tech"
	updated, err := suite.service.Update(suite.ctx, event.ID, in)
	suite.Require().NoError(err)

	suite.Equal("old-title", updated.Slug)
	suite.Equal(models.CategoryTech, updated.Category)
	suite.Equal(constants.DefaultEventImage, updated.Image)
}

func (suite *EventServiceTestSuite) TestUpdate_ReplacesImage() {
	in := eventInput("Gallery")
	in.Image = imageUpload("a.png", "image/png", pngBytes)
	event, err := suite.service.Create(suite.ctx, in, nil)
	suite.Require().NoError(err)
	oldImage := event.Image

	in = eventInput("Gallery")
	in.Image = imageUpload("b.jpg", "image/jpeg", jpegBytes)
	updated, err := suite.service.Update(suite.ctx, event.ID, in)
	suite.Require().NoError(err)

	suite.NotEqual(oldImage, updated.Image)
	suite.False(suite.images.Has(oldImage))
	suite.True(suite.images.Has(updated.Image))
}

func (suite *EventServiceTestSuite) TestUpdate_NotFound() {
	_, err := suite.service.Update(suite.ctx, 404, eventInput("x"))
	suite.ErrorIs(err, ErrEventNotFound)
}

func (suite *EventServiceTestSuite) TestDelete_RemovesRSVPsAndImage() {
	participant := suite.createUser("p", models.GroupParticipant)
	in := eventInput("Gig")
	in.Image = imageUpload("a.png", "image/png", pngBytes)
	event, err := suite.service.Create(suite.ctx, in, nil)
	suite.Require().NoError(err)
	_, _, err = suite.service.RSVP(suite.ctx, event.ID, participant)
	suite.Require().NoError(err)

	_, err = suite.service.Delete(suite.ctx, event.ID)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.RSVP{}).Count(&count).Error)
	suite.Zero(count)
	suite.False(suite.images.Has(event.Image))

	_, err = suite.service.Delete(suite.ctx, event.ID)
	suite.ErrorIs(err, ErrEventNotFound)
}

func (suite *EventServiceTestSuite) TestRSVP_Idempotent() {
	participant := suite.createUser("p", models.GroupParticipant)
	event, err := suite.service.Create(suite.ctx, eventInput("Gig"), nil)
	suite.Require().NoError(err)

	_, created, err := suite.service.RSVP(suite.ctx, event.ID, participant)
	suite.Require().NoError(err)
	suite.True(created)

	_, created, err = suite.service.RSVP(suite.ctx, event.ID, participant)
	suite.Require().NoError(err)
	suite.False(created)

	detail, err := suite.service.Get(suite.ctx, event.Slug)
	suite.Require().NoError(err)
	suite.Len(detail.Attendees, 1)
	suite.Len(suite.notifier.rsvps, 1)
}

func (suite *EventServiceTestSuite) TestGet_ByIDThenSlug() {
	event, err := suite.service.Create(suite.ctx, eventInput("2031"), nil)
	suite.Require().NoError(err)
	suite.Equal("2031", event.Slug)

	byID, err := suite.service.Get(suite.ctx, "1")
	suite.Require().NoError(err)
	suite.Equal(event.ID, byID.Event.ID)

	bySlug, err := suite.service.Get(suite.ctx, "2031")
	suite.Require().NoError(err)
	suite.Equal(event.ID, bySlug.Event.ID)

	_, err = suite.service.Get(suite.ctx, "missing")
	suite.ErrorIs(err, ErrEventNotFound)
}

func (suite *EventServiceTestSuite) TestList_FilterAndPaginate() {
	for _, c := range []string{"music", "art", "art"} {
		in := eventInput("Event " + c)
		in.Category = c
		_, err := suite.service.Create(suite.ctx, in, nil)
		suite.Require().NoError(err)
	}

	params := utils.PaginationParams{Page: 1, Limit: 20, Offset: 0}
	all, err := suite.service.List(suite.ctx, "", params)
	suite.Require().NoError(err)
	suite.Len(all.Events, 3)

	art, err := suite.service.List(suite.ctx, "art", params)
	suite.Require().NoError(err)
	suite.Len(art.Events, 2)
	suite.Equal(models.CategoryArt, art.Category)

	unknown, err := suite.service.List(suite.ctx, "cooking", params)
	suite.Require().NoError(err)
	suite.Len(unknown.Events, 3)

	page, err := suite.service.List(suite.ctx, "", utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	suite.Require().NoError(err)
	suite.Len(page.Events, 1)
	suite.True(page.Pagination.HasPrev)
	suite.False(page.Pagination.HasNext)
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}
