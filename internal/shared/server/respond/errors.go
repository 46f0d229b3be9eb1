package respond

import (
	"github.com/gin-gonic/gin"

	"plant-relay/internal/shared/telemetry"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Error logs the failure and sends a standardized error response. If the
// response has already been written, it only logs and aborts.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"origin":     c.GetHeader("Origin"),
		"request_id": c.GetString("requestId"),
		"client_ip":  c.ClientIP(),
	}
	if c.Writer.Written() {
		fields["already_written"] = true
		telemetry.Error("http.error", fields)
		c.Abort()
		return
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:  "error",
		Error: message,
	})
}
