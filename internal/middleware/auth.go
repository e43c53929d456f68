package middleware

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/access"
	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"github.com/yukikurage/event-rsvp/internal/models"
	"go.uber.org/zap"
)

const msgLoginRequired = "Please log in to continue."

// UserLoader loads a user with its groups.
type UserLoader interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// LoadCurrentUser resolves the session user once per request. Sessions pointing at
// deleted or inactive users are cleared.
func LoadCurrentUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(constants.ContextKeyUserID)
		if raw == nil {
			c.Next()
			return
		}

		c.Set(constants.ContextKeyUserID, raw)
		userID, ok := GetUserID(c)
		if !ok {
			clearSession(c, session)
			c.Next()
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if apierrors.KindOf(err) != apierrors.KindNotFound {
				GetLogger(c).Error("Failed to load session user", zap.Uint64("user_id", userID), zap.Error(err))
				apierrors.InternalError(c, "")
				c.Abort()
				return
			}
			clearSession(c, session)
			c.Next()
			return
		}
		if !user.IsActive {
			clearSession(c, session)
			c.Next()
			return
		}

		c.Set(constants.ContextKeyCurrentUser, user)
		c.Next()
	}
}

func clearSession(c *gin.Context, session sessions.Session) {
	c.Set(constants.ContextKeyUserID, nil)
	session.Delete(constants.ContextKeyUserID)
	if err := session.Save(); err != nil {
		GetLogger(c).Warn("Failed to clear stale session", zap.Error(err))
	}
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			deny(c, "unauthenticated", apierrors.ErrCodeUnauthorized, msgLoginRequired)
			return
		}
		c.Next()
	}
}

// RequirePermission gates a route on the access policy for op. Anonymous and
// unauthorized requests both get a flash message and a redirect to the login page.
func RequirePermission(op access.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch access.Check(op, access.PrincipalFor(CurrentUser(c))) {
		case access.Allow:
			c.Next()
		case access.DenyUnauthenticated:
			deny(c, "unauthenticated", apierrors.ErrCodeUnauthorized, msgLoginRequired, zap.String("operation", string(op)))
		default:
			deny(c, "forbidden", apierrors.ErrCodeForbidden, access.DeniedMessage(op), zap.String("operation", string(op)))
		}
	}
}

func deny(c *gin.Context, reason, code, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("reason", reason), zap.String("code", code))
	if userID, ok := GetUserID(c); ok {
		fields = append(fields, zap.Uint64("user_id", userID))
	}
	GetLogger(c).Warn("Access denied", fields...)

	AddFlash(c, FlashError, msg)
	c.Redirect(http.StatusFound, constants.RouteLogin)
	c.Abort()
}

// CurrentUser returns the logged-in user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(constants.ContextKeyCurrentUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
