package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/constants"
	"github.com/yukikurage/event-rsvp/internal/dto"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/middleware"
	"github.com/yukikurage/event-rsvp/internal/services"
	"github.com/yukikurage/event-rsvp/internal/utils"
	"go.uber.org/zap"
)

// EventHandler serves the public event pages and the event management forms.
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

type eventForm struct {
	Title       string `form:"title" binding:"required,max=255"`
	Description string `form:"description" binding:"required"`
	Date        string `form:"date" binding:"required"`
	Category    string `form:"category" binding:"required,oneof=music sports tech art"`
}

func (f eventForm) values() map[string]string {
	return map[string]string{
		"title":       f.Title,
		"description": f.Description,
		"date":        f.Date,
		"category":    f.Category,
	}
}

func eventFormValues(e dto.EventDTO) map[string]string {
	return map[string]string{
		"title":       e.Title,
		"description": e.Description,
		"date":        e.DateInput,
		"category":    string(e.Category),
	}
}

// ListEvents renders the paginated event list, optionally filtered by ?category=.
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.eventService.List(c.Request.Context(), c.Query("category"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "event_list.html", gin.H{
		"Title": "Events",
		"List":  dto.ToEventListResponse(result.Events, result.Category, result.Pagination, h.eventService.ImageURL),
	})
}

// GetEvent renders an event with its RSVP list. The reference may be an id or a slug.
func (h *EventHandler) GetEvent(c *gin.Context) {
	detail, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "event_detail.html", gin.H{
		"Title": detail.Event.Title,
		"Event": dto.ToEventDetailDTO(*detail.Event, detail.Attendees, h.eventService.ImageURL),
	})
}

// NewEventPage renders an empty event form.
func (h *EventHandler) NewEventPage(c *gin.Context) {
	render(c, http.StatusOK, "event_form.html", gin.H{
		"Title":      "Create event",
		"Categories": dto.Categories(),
		"Form":       map[string]string{"category": "music"},
	})
}

// CreateEvent creates an event organized by the current user.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	input, form, ok := h.bindEventForm(c, nil)
	if !ok {
		return
	}
	defer closeUpload(input)

	event, err := h.eventService.Create(c.Request.Context(), input, middleware.CurrentUser(c))
	if err != nil {
		h.respondFormError(c, err, form, nil)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, "Event created successfully!", eventPath(event.ID))
}

// EditEventPage renders the form prefilled with the event.
func (h *EventHandler) EditEventPage(c *gin.Context) {
	event, err := h.eventService.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	e := dto.ToEventDTO(*event, h.eventService.ImageURL)
	render(c, http.StatusOK, "event_form.html", gin.H{
		"Title":      "Edit event",
		"Event":      e,
		"Categories": dto.Categories(),
		"Form":       eventFormValues(e),
	})
}

// UpdateEvent saves the edited event. The slug never changes.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := h.eventService.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	current := dto.ToEventDTO(*event, h.eventService.ImageURL)

	input, form, ok := h.bindEventForm(c, &current)
	if !ok {
		return
	}
	defer closeUpload(input)

	updated, err := h.eventService.Update(ctx, event.ID, input)
	if err != nil {
		h.respondFormError(c, err, form, &current)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, "Event updated successfully!", eventPath(updated.ID))
}

// ConfirmDeleteEvent asks for confirmation before deleting.
func (h *EventHandler) ConfirmDeleteEvent(c *gin.Context) {
	event, err := h.eventService.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "event_confirm_delete.html", gin.H{
		"Title": "Delete event",
		"Event": dto.ToEventDTO(*event, h.eventService.ImageURL),
	})
}

// DeleteEvent deletes the event with its RSVPs.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := h.eventService.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.eventService.Delete(ctx, event.ID); err != nil {
		respondError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess, "Event deleted successfully!", constants.RouteEventList)
}

// RSVP records the current participant's attendance.
func (h *EventHandler) RSVP(c *gin.Context) {
	ctx := c.Request.Context()
	ref, err := h.eventService.Resolve(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	event, created, err := h.eventService.RSVP(ctx, ref.ID, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		redirectWithFlash(c, middleware.FlashSuccess, "RSVP successful! A confirmation email has been sent.", eventPath(event.ID))
		return
	}
	redirectWithFlash(c, middleware.FlashInfo, "You have already RSVP'd to this event.", eventPath(event.ID))
}

// bindEventForm reads the form and the optional image upload, rendering the form with errors on failure.
func (h *EventHandler) bindEventForm(c *gin.Context, current *dto.EventDTO) (services.EventInput, eventForm, bool) {
	var form eventForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, form, current, bindingErrors(err))
		return services.EventInput{}, form, false
	}

	input := services.EventInput{
		Title:       form.Title,
		Description: form.Description,
		Date:        form.Date,
		Category:    form.Category,
	}

	header, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		h.renderForm(c, http.StatusBadRequest, form, current, apierrors.FieldErrors{"image": "Upload a valid image."})
		return services.EventInput{}, form, false
	default:
		file, err := header.Open()
		if err != nil {
			middleware.GetLogger(c).Error("Failed to open upload", zap.Error(err))
			apierrors.InternalError(c, "")
			return services.EventInput{}, form, false
		}
		input.Image = &services.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}

	return input, form, true
}

func (h *EventHandler) respondFormError(c *gin.Context, err error, form eventForm, current *dto.EventDTO) {
	if fields := apierrors.Fields(err); fields != nil {
		h.renderForm(c, http.StatusBadRequest, form, current, fields)
		return
	}
	respondError(c, err)
}

func (h *EventHandler) renderForm(c *gin.Context, status int, form eventForm, current *dto.EventDTO, fields apierrors.FieldErrors) {
	data := gin.H{
		"Title":      "Create event",
		"Categories": dto.Categories(),
		"Form":       form.values(),
		"Errors":     fields,
	}
	if current != nil {
		data["Title"] = "Edit event"
		data["Event"] = *current
	}
	render(c, status, "event_form.html", data)
}

func closeUpload(input services.EventInput) {
	if input.Image == nil {
		return
	}
	if f, ok := input.Image.Body.(multipart.File); ok {
		f.Close()
	}
}

func eventPath(id uint64) string {
	return fmt.Sprintf("/event/%d/", id)
}
