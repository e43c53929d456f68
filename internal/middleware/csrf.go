package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-rsvp/internal/constants"
	apierrors "github.com/yukikurage/event-rsvp/internal/errors"
	"go.uber.org/zap"
)

const msgCSRFFailed = "CSRF verification failed. Request aborted."

// CSRF keeps a token in the session and rejects state-changing requests that do not
// send it back in the csrf_token form field or the X-CSRF-Token header.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(constants.SessionKeyCSRFToken).(string)
		if token == "" {
			var err error
			if token, err = newCSRFToken(); err != nil {
				GetLogger(c).Error("Failed to generate CSRF token", zap.Error(err))
				apierrors.InternalError(c, "")
				c.Abort()
				return
			}
			session.Set(constants.SessionKeyCSRFToken, token)
			if err := session.Save(); err != nil {
				GetLogger(c).Warn("Failed to save CSRF token", zap.Error(err))
			}
		}
		c.Set(constants.ContextKeyCSRFToken, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			c.Next()
			return
		}

		sent := c.GetHeader(constants.HeaderCSRFToken)
		if sent == "" {
			sent = c.PostForm(constants.FormFieldCSRFToken)
		}
		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			GetLogger(c).Warn("Access denied",
				zap.String("reason", "csrf"),
				zap.String("code", apierrors.ErrCodeInvalidCSRFToken),
			)
			apierrors.Forbidden(c, msgCSRFFailed)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CSRFToken returns the token forms must echo back, or "" outside CSRF.
func CSRFToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyCSRFToken)
}

func newCSRFToken() (string, error) {
	b := make([]byte, constants.CSRFTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
