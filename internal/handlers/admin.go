package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/constants"
	"github.com/yukikurage/event-rsvp/internal/dto"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/middleware"
	"github.com/yukikurage/event-rsvp/internal/models"
	"github.com/yukikurage/event-rsvp/internal/services"
)

// AdminHandler serves the user and group management pages of the admin dashboard.
type AdminHandler struct {
	admin *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{
		admin: admin,
	}
}

type changeRoleForm struct {
	Role string `form:"role" binding:"required"`
}

type groupForm struct {
	GroupName string `form:"group_name" binding:"required,max=150"`
}

// ChangeRolePage renders the role picker for a user.
func (h *AdminHandler) ChangeRolePage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.admin.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.renderChangeRole(c, http.StatusOK, user, nil)
}

// ChangeRole replaces the user's groups with the selected role.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var form changeRoleForm
	if err := c.ShouldBind(&form); err != nil {
		user, uerr := h.admin.GetUser(ctx, id)
		if uerr != nil {
			respondError(c, uerr)
			return
		}
		h.renderChangeRole(c, http.StatusBadRequest, user, bindingErrors(err))
		return
	}

	user, err := h.admin.ChangeUserRole(ctx, id, form.Role)
	if err != nil {
		if fields := apierrors.Fields(err); fields != nil {
			target, uerr := h.admin.GetUser(ctx, id)
			if uerr != nil {
				respondError(c, uerr)
				return
			}
			h.renderChangeRole(c, http.StatusBadRequest, target, fields)
			return
		}
		respondError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("User %s's role updated to %s!", user.Username, form.Role), constants.RouteAdminDashboard)
}

func (h *AdminHandler) renderChangeRole(c *gin.Context, status int, user *models.User, fields apierrors.FieldErrors) {
	if fields == nil {
		fields = apierrors.FieldErrors{}
	}
	render(c, status, "change_user_role.html", gin.H{
		"Title":  "Change role",
		"User":   dto.ToUserDTO(*user),
		"Roles":  models.RoleGroupNames,
		"Errors": fields,
	})
}

// CreateGroupPage renders the group form.
func (h *AdminHandler) CreateGroupPage(c *gin.Context) {
	render(c, http.StatusOK, "create_group.html", gin.H{"Title": "Create group"})
}

// CreateGroup creates a group unless one with the name exists.
func (h *AdminHandler) CreateGroup(c *gin.Context) {
	var form groupForm
	if err := c.ShouldBind(&form); err != nil {
		fields := bindingErrors(err)
		if _, ok := fields["group_name"]; ok && form.GroupName == "" {
			fields = apierrors.Fields(services.ErrEmptyGroupName)
		}
		render(c, http.StatusBadRequest, "create_group.html", gin.H{
			"Title":  "Create group",
			"Form":   map[string]string{"group_name": form.GroupName},
			"Errors": fields,
		})
		return
	}

	group, created, err := h.admin.CreateGroup(c.Request.Context(), form.GroupName)
	if err != nil {
		if fields := apierrors.Fields(err); fields != nil {
			render(c, http.StatusBadRequest, "create_group.html", gin.H{
				"Title":  "Create group",
				"Form":   map[string]string{"group_name": form.GroupName},
				"Errors": fields,
			})
			return
		}
		respondError(c, err)
		return
	}

	if created {
		redirectWithFlash(c, middleware.FlashSuccess,
			fmt.Sprintf("Group '%s' created successfully!", group.Name), constants.RouteAdminDashboard)
		return
	}
	redirectWithFlash(c, middleware.FlashInfo,
		fmt.Sprintf("Group '%s' already exists.", group.Name), constants.RouteAdminDashboard)
}

// ConfirmDeleteGroup asks for confirmation before deleting a group.
func (h *AdminHandler) ConfirmDeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	group, err := h.admin.GetGroup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	render(c, http.StatusOK, "confirm_delete_group.html", gin.H{
		"Title": "Delete group",
		"Group": dto.ToGroupDTOs([]models.Group{*group})[0],
	})
}

// DeleteGroup deletes a group and its memberships.
func (h *AdminHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	group, err := h.admin.DeleteGroup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Group '%s' deleted successfully!", group.Name), constants.RouteAdminDashboard)
}

// ConfirmDeleteParticipant asks for confirmation, refusing protected accounts up front.
func (h *AdminHandler) ConfirmDeleteParticipant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.admin.DeletableParticipant(c.Request.Context(), id)
	if err != nil {
		h.respondDeleteError(c, err)
		return
	}

	render(c, http.StatusOK, "confirm_delete_participant.html", gin.H{
		"Title": "Delete participant",
		"User":  dto.ToUserDTO(*user),
	})
}

// DeleteParticipant deletes a participant account.
func (h *AdminHandler) DeleteParticipant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.admin.DeleteParticipant(c.Request.Context(), id)
	if err != nil {
		h.respondDeleteError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("Participant %s deleted successfully!", user.Username), constants.RouteAdminDashboard)
}

// respondDeleteError sends protected-account refusals back to the admin dashboard.
func (h *AdminHandler) respondDeleteError(c *gin.Context, err error) {
	if apierrors.KindOf(err) == apierrors.KindPermission {
		appErr, _ := apierrors.As(err)
		redirectWithFlash(c, middleware.FlashError, appErr.Message, constants.RouteAdminDashboard)
		return
	}
	respondError(c, err)
}
