package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailpane/core/internal/services"
)

// RequestLogMiddleware records every API request in the activity log with
// its status, duration and client address.
func RequestLogMiddleware(logService *services.LogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logService.LogAPIRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Milliseconds(),
			c.ClientIP(),
			GetRequestIDFromContext(c),
		)
	}
}
