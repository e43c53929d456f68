package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Flash levels, also used as CSS classes by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

var flashLevels = []string{FlashError, FlashInfo, FlashSuccess}

// FlashMessage is a one-shot message shown on the next rendered page.
type FlashMessage struct {
	Level   string
	Message string
}

// AddFlash queues msg and saves the session.
func AddFlash(c *gin.Context, level, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, level)
	if err := session.Save(); err != nil {
		GetLogger(c).Warn("Failed to save flash message", zap.Error(err))
	}
}

// PopFlashes returns and clears the queued messages.
func PopFlashes(c *gin.Context) []FlashMessage {
	session := sessions.Default(c)

	var out []FlashMessage
	for _, level := range flashLevels {
		for _, v := range session.Flashes(level) {
			if msg, ok := v.(string); ok {
				out = append(out, FlashMessage{Level: level, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(); err != nil {
			GetLogger(c).Warn("Failed to clear flash messages", zap.Error(err))
		}
	}
	return out
}
