package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"plant-relay/internal/shared/server/respond"
	"plant-relay/internal/shared/telemetry"
)

// Recovery recovers from panics and returns a standardized error response.
// A panic after the response was written is logged and swallowed.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"origin":     c.GetHeader("Origin"),
					"written":    c.Writer.Written(),
				})
				if c.Writer.Written() {
					c.Abort()
					return
				}
				respond.Error(c, http.StatusInternalServerError, "Internal server error.")
			}
		}()
		c.Next()
	}
}
