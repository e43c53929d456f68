package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/access"
	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/middleware"
	"github.com/yukikurage/event-rsvp/internal/services"
	"go.uber.org/zap"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type signupForm struct {
	Username  string `form:"username" binding:"required"`
	Email     string `form:"email" binding:"required"`
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Password1 string `form:"password1" binding:"required"`
	Password2 string `form:"password2" binding:"required"`
}

func (f signupForm) values() map[string]string {
	return map[string]string{
		"username":   f.Username,
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
	}
}

// SignupPage renders the signup form.
func (h *AuthHandler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

// Signup registers a new inactive user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "signup.html", gin.H{
			"Title":  "Sign up",
			"Form":   form.values(),
			"Errors": bindingErrors(err),
		})
		return
	}

	_, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password1: form.Password1,
		Password2: form.Password2,
	})
	if err != nil {
		if fields := apierrors.Fields(err); fields != nil {
			render(c, http.StatusBadRequest, "signup.html", gin.H{
				"Title":  "Sign up",
				"Form":   form.values(),
				"Errors": fields,
			})
			return
		}
		respondError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		"Account created! Please check your email to activate your account.", constants.RouteLogin)
}

// Activate consumes an activation link.
func (h *AuthHandler) Activate(c *gin.Context) {
	_, err := h.authService.Activate(c.Request.Context(), c.Param("uid"), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	redirectWithFlash(c, middleware.FlashSuccess,
		"Your account has been activated! You can now log in.", constants.RouteLogin)
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login authenticates a user, initializes the session and redirects to the dashboard for its role.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.authService.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if apierrors.KindOf(err) != apierrors.KindAuth {
			respondError(c, err)
			return
		}
		appErr, _ := apierrors.As(err)
		middleware.GetLogger(c).Info("Login failed", zap.String("reason", appErr.Code))
		middleware.AddFlash(c, middleware.FlashError, appErr.Message)
		render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title": "Log in",
			"Form":  map[string]string{"username": username},
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		middleware.GetLogger(c).Error("Failed to save session", zap.Error(err))
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	middleware.GetLogger(c).Info("User logged in", zap.Uint64("user_id", user.ID))
	c.Redirect(http.StatusFound, dashboardFor(access.PrincipalFor(user).Role()))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.Redirect(http.StatusFound, constants.RouteLogin)
}

func dashboardFor(role access.Role) string {
	switch role {
	case access.RoleAdmin:
		return constants.RouteAdminDashboard
	case access.RoleOrganizer:
		return constants.RouteOrganizerDashboard
	default:
		return constants.RouteParticipantDashboard
	}
}
