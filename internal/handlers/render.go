package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/event-rsvp/internal/access"
	"github.com/yukikurage/event-rsvp/internal/constants"
	"github.com/yukikurage/event-rsvp/internal/dto"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/middleware"
	"go.uber.org/zap"
)

// templateOps are the operations whose permission the templates check to show links and buttons.
var templateOps = []access.Operation{
	access.OpCreateEvent,
	access.OpEditEvent,
	access.OpDeleteEvent,
	access.OpRSVP,
	access.OpAdminDashboard,
	access.OpOrganizerDashboard,
	access.OpParticipantDashboard,
}

// render executes a page template with the data every page needs.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	user := middleware.CurrentUser(c)
	principal := access.PrincipalFor(user)
	perms := make(map[string]bool, len(templateOps))
	for _, op := range templateOps {
		perms[string(op)] = access.Allowed(op, principal)
	}

	var current *dto.UserDTO
	if user != nil {
		u := dto.ToUserDTO(*user)
		current = &u
	}

	data["CurrentUser"] = current
	data["Perms"] = perms
	data["Flashes"] = middleware.PopFlashes(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	if _, ok := data["Form"]; !ok {
		data["Form"] = map[string]string{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = apierrors.FieldErrors{}
	}

	c.HTML(status, name, data)
}

func redirectWithFlash(c *gin.Context, level, msg, location string) {
	middleware.AddFlash(c, level, msg)
	c.Redirect(http.StatusFound, location)
}

// respondError maps errors that are not handled inline by a form.
func respondError(c *gin.Context, err error) {
	appErr, _ := apierrors.As(err)

	switch apierrors.KindOf(err) {
	case apierrors.KindNotFound:
		apierrors.NotFound(c, appErr.Message)
	case apierrors.KindActivation:
		apierrors.ActivationFailed(c)
	case apierrors.KindPermission:
		middleware.GetLogger(c).Warn("Operation refused", zap.String("reason", appErr.Code))
		redirectWithFlash(c, middleware.FlashError, appErr.Message, constants.RouteLogin)
	case apierrors.KindValidation:
		msg := "Invalid request"
		if appErr != nil {
			msg = appErr.Message
		}
		apierrors.BadRequest(c, msg)
	default:
		middleware.GetLogger(c).Error("Request failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}

// bindingErrors turns validator failures from form binding into inline field messages.
func bindingErrors(err error) apierrors.FieldErrors {
	fe := apierrors.FieldErrors{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("", "Invalid form submission.")
		return fe
	}

	for _, v := range verrs {
		field := formFieldName(v.Field())
		switch v.Tag() {
		case "required":
			fe.Add(field, "This field is required.")
		case "max":
			fe.Add(field, "Ensure this value has at most "+v.Param()+" characters.")
		case "oneof":
			fe.Add(field, "Select a valid choice.")
		case "email":
			fe.Add(field, "Enter a valid email address.")
		default:
			fe.Add(field, "Enter a valid value.")
		}
	}
	return fe
}

var formFieldNames = map[string]string{
	"FirstName": "first_name",
	"LastName":  "last_name",
	"Password1": "password1",
	"Password2": "password2",
	"GroupName": "group_name",
}

func formFieldName(structField string) string {
	if name, ok := formFieldNames[structField]; ok {
		return name
	}
	return strings.ToLower(structField)
}

// parseID reads a numeric path parameter.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}
