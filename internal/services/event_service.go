package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/logging"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/repository"
	"github.com/yukikurage/event-rsvp/internal/storage"
	"github.com/yukikurage/event-rsvp/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxSlugAttempts bounds retries when a concurrent insert takes the chosen slug.
const (
	maxSlugAttempts = 3
	maxTitleLength  = 255
	msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var (
	ErrEventNotFound = apierrors.NotFoundError("Event not found.")
	ErrSlugConflict  = apierrors.Validation("title", apierrors.ErrCodeConflict,
		"An event with this title was created at the same time. Please submit again.")
)

// EventService handles event CRUD and RSVPs.
type EventService struct {
	eventRepo repository.EventRepository
	images    storage.ImageStore
	notifier  Notifier
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, images storage.ImageStore, notifier Notifier) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		images:    images,
		notifier:  notifier,
	}
}

// ImageUpload is an image file submitted with an event form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// EventInput holds the raw event form values.
type EventInput struct {
	Title       string
	Description string
	Date        string
	Category    string
	Image       *ImageUpload
}

type eventFields struct {
	title       string
	description string
	date        time.Time
	category    models.EventCategory
}

func parseEventInput(input EventInput) (eventFields, error) {
	fe := apierrors.FieldErrors{}
	f := eventFields{
		title:       strings.TrimSpace(input.Title),
		description: strings.TrimSpace(input.Description),
		category:    models.EventCategory(strings.TrimSpace(input.Category)),
	}

	if f.title == "" {
		fe.Add("title", "This field is required.")
	} else if utf8.RuneCountInString(f.title) > maxTitleLength {
		fe.Add("title", fmt.Sprintf("Ensure this value has at most %d characters.", maxTitleLength))
	}
	if f.description == "" {
		fe.Add("description", "This field is required.")
	}

	if raw := strings.TrimSpace(input.Date); raw == "" {
		fe.Add("date", "This field is required.")
	} else if d, err := time.ParseInLocation(constants.EventDateLayout, raw, time.Local); err != nil {
		fe.Add("date", "Enter a valid date/time.")
	} else {
		f.date = d
	}

	if f.category == "" {
		fe.Add("category", "This field is required.")
	} else if !f.category.Valid() {
		fe.Add("category", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", f.category))
	}

	if img := input.Image; img != nil {
		switch {
		case img.Size > constants.MaxImageSize:
			fe.Add("image", "The uploaded image is too large.")
		case !storage.ValidateImageType(img.ContentType, img.Filename):
			fe.Add("image", msgInvalidImage)
		}
	}

	return f, fe.Err()
}

// saveImage stores img under a fresh key once its bytes are confirmed to be an allowed image.
func (s *EventService) saveImage(ctx context.Context, img *ImageUpload) (string, error) {
	contentType, body, err := storage.SniffImage(img.Body)
	if errors.Is(err, storage.ErrUnsupportedImageType) {
		logging.FromContext(ctx).Info("Rejected image upload",
			zap.String("filename", img.Filename),
			zap.String("claimed_type", img.ContentType),
			zap.Error(err),
		)
		return "", apierrors.FieldErrors{"image": msgInvalidImage}
	}
	if err != nil {
		return "", err
	}

	key, err := storage.ImageKey(img.Filename, contentType)
	if err != nil {
		return "", apierrors.FieldErrors{"image": msgInvalidImage}
	}
	if err := s.images.Save(ctx, key, contentType, body, img.Size); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return key, nil
}

func (s *EventService) removeImage(ctx context.Context, key string) {
	if !storage.IsUploaded(key) {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logging.FromContext(ctx).Warn("Failed to remove event image", zap.String("image", key), zap.Error(err))
	}
}

// ImageURL resolves an event image key to a URL.
func (s *EventService) ImageURL(key string) string {
	return s.images.URL(key)
}

// Create validates input, stores the optional image and inserts the event with a fresh unique slug.
// Slug collisions get -2, -3, ... appended.
func (s *EventService) Create(ctx context.Context, input EventInput, organizer *models.User) (*models.Event, error) {
	fields, err := parseEventInput(input)
	if err != nil {
		return nil, err
	}

	image := constants.DefaultEventImage
	if input.Image != nil {
		if image, err = s.saveImage(ctx, input.Image); err != nil {
			return nil, err
		}
	}

	event := &models.Event{
		Title:       fields.title,
		Description: fields.description,
		Date:        fields.date,
		Category:    fields.category,
		Image:       image,
	}
	if organizer != nil {
		event.OrganizerID = &organizer.ID
	}

	base := utils.Slugify(fields.title)
	exists := func(candidate string) (bool, error) {
		return s.eventRepo.SlugExists(ctx, candidate)
	}

	log := logging.FromContext(ctx)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := utils.UniqueSlug(base, exists)
		if err != nil {
			s.removeImage(ctx, image)
			return nil, err
		}

		event.ID = 0
		event.Slug = slug
		err = s.eventRepo.Create(ctx, event)
		if err == nil {
			log.Info("Event created", zap.Uint64("event_id", event.ID), zap.String("slug", event.Slug))
			return event, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			s.removeImage(ctx, image)
			return nil, fmt.Errorf("failed to create event: %w", err)
		}
		log.Warn("Slug taken concurrently, retrying", zap.String("slug", slug), zap.Int("attempt", attempt))
	}

	s.removeImage(ctx, image)
	return nil, ErrSlugConflict
}

// Update rewrites the editable fields. The slug and organizer never change, and the
// image is replaced only when a new one is uploaded.
func (s *EventService) Update(ctx context.Context, id uint64, input EventInput) (*models.Event, error) {
	event, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := parseEventInput(input)
	if err != nil {
		return nil, err
	}

	oldImage := event.Image
	if input.Image != nil {
		if event.Image, err = s.saveImage(ctx, input.Image); err != nil {
			return nil, err
		}
	}

	event.Title = fields.title
	event.Description = fields.description
	event.Date = fields.date
	event.Category = fields.category

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if event.Image != oldImage {
			s.removeImage(ctx, event.Image)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if event.Image != oldImage {
		s.removeImage(ctx, oldImage)
	}

	logging.FromContext(ctx).Info("Event updated", zap.Uint64("event_id", event.ID))
	return event, nil
}

// Delete removes an event with its RSVPs, then its uploaded image.
func (s *EventService) Delete(ctx context.Context, id uint64) (*models.Event, error) {
	event, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete event: %w", err)
	}
	s.removeImage(ctx, event.Image)

	logging.FromContext(ctx).Info("Event deleted", zap.Uint64("event_id", id))
	return event, nil
}

// RSVP records user's attendance. created is false when the user had already RSVP'd.
func (s *EventService) RSVP(ctx context.Context, eventID uint64, user *models.User) (*models.Event, bool, error) {
	event, err := s.findByID(ctx, eventID)
	if err != nil {
		return nil, false, err
	}

	created, err := s.eventRepo.AddRSVP(ctx, event.ID, user.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add rsvp: %w", err)
	}

	if created {
		s.notifier.SendRSVPConfirmation(user, event)
		logging.FromContext(ctx).Info("RSVP recorded", zap.Uint64("event_id", event.ID), zap.Uint64("user_id", user.ID))
	}
	return event, created, nil
}

// EventListResult is one page of events.
type EventListResult struct {
	Events     []models.Event
	Category   models.EventCategory
	Pagination utils.PaginationResponse
}

// List returns events ordered by date. Unknown categories are ignored.
func (s *EventService) List(ctx context.Context, category string, params utils.PaginationParams) (*EventListResult, error) {
	filter := repository.EventFilter{Pagination: &params}

	result := &EventListResult{}
	if c := models.EventCategory(category); c.Valid() {
		filter.Category = &c
		result.Category = c
	}

	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result.Events = events
	result.Pagination = utils.NewPaginationResponse(params, total)
	return result, nil
}

// EventDetail is an event with its attendees.
type EventDetail struct {
	Event     *models.Event
	Attendees []models.User
}

// Get resolves ref as an id first, then as a slug, and loads the RSVP list.
func (s *EventService) Get(ctx context.Context, ref string) (*EventDetail, error) {
	event, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	attendees, err := s.eventRepo.ListAttendees(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}

	return &EventDetail{Event: event, Attendees: attendees}, nil
}

// Resolve finds an event by id or slug without attendees.
func (s *EventService) Resolve(ctx context.Context, ref string) (*models.Event, error) {
	return s.resolve(ctx, ref)
}

func (s *EventService) resolve(ctx context.Context, ref string) (*models.Event, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		event, err := s.eventRepo.FindByID(ctx, id, "Organizer")
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find event: %w", err)
		}
	}

	event, err := s.eventRepo.FindBySlug(ctx, ref, "Organizer")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

func (s *EventService) findByID(ctx context.Context, id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}
