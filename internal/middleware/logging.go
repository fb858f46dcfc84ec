package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/logger"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		}
		if u, ok := UserFromContext(c.Request.Context()); ok {
			fields["user_id"] = u.ID
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request failed", fields)
			return
		}
		logger.Info("request", fields)
	}
}
