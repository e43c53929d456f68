package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/dto"
	"github.com/yukikurage/event-rsvp/internal/middleware"
	"github.com/yukikurage/event-rsvp/internal/services"
)

// DashboardHandler renders the role dashboards.
type DashboardHandler struct {
	dashboards *services.DashboardService
	imageURL   dto.ImageURLFunc
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboards *services.DashboardService, imageURL dto.ImageURLFunc) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		imageURL:   imageURL,
	}
}

// Admin lists all events, users and groups.
func (h *DashboardHandler) Admin(c *gin.Context) {
	data, err := h.dashboards.Admin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "dashboard_admin.html", gin.H{
		"Title":  "Admin dashboard",
		"Events": dto.ToEventDTOs(data.Events, h.imageURL),
		"Users":  dto.ToUserDTOs(data.Users),
		"Groups": dto.ToGroupDTOs(data.Groups),
	})
}

// Organizer lists all events.
func (h *DashboardHandler) Organizer(c *gin.Context) {
	events, err := h.dashboards.Organizer(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "dashboard_organizer.html", gin.H{
		"Title":  "Organizer dashboard",
		"Events": dto.ToEventDTOs(events, h.imageURL),
	})
}

// Participant lists the events the current user RSVP'd to.
func (h *DashboardHandler) Participant(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	events, err := h.dashboards.Participant(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "dashboard_participant.html", gin.H{
		"Title":  "My RSVPs",
		"Events": dto.ToEventDTOs(events, h.imageURL),
	})
}
