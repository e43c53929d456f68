package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/event-rsvp/internal/constants"
	"github.com/yukikurage/event-rsvp/internal/logging"
	"go.uber.org/zap"
)

// Trace assigns each request a trace id (taken from X-Trace-Id when present) and a
// request-scoped logger carrying it.
func Trace(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(constants.HeaderTraceID)
		if traceID == "" {
			traceID = strings.ReplaceAll(uuid.New().String(), "-", "")
		}

		reqLogger := logger.With(
			zap.String("trace_id", traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)

		c.Set(constants.ContextKeyLogger, reqLogger)
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), reqLogger))
		c.Header(constants.HeaderTraceID, traceID)

		c.Next()
	}
}

// GetLogger returns the request logger, or a no-op logger outside Trace.
func GetLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(constants.ContextKeyLogger); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return logging.FromContext(c.Request.Context())
}
