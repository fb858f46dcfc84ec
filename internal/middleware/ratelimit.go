package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/logger"
	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
)

// RateLimit allows each client address one request per period for the
// named action.
func RateLimit(l ratelimit.Limiter, action string, period time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Allow(c, l, action, period) {
			return
		}
		c.Next()
	}
}

// Allow is RateLimit for handlers that only limit some of their work.
// It answers 429 itself and returns false when the client is over the
// limit. Limiter failures let the request through.
func Allow(c *gin.Context, l ratelimit.Limiter, action string, period time.Duration) bool {
	key := "ratelimit:" + action + ":" + c.ClientIP()

	res, err := l.Allow(c.Request.Context(), key, period)
	if err != nil {
		logger.Warn("rate limiter unavailable", map[string]any{
			"action": action,
			"error":  err.Error(),
		})
		return true
	}

	if !res.Allowed {
		secs := int(math.Ceil(res.RetryAfter.Seconds()))
		c.Header("Retry-After", fmt.Sprint(secs))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"msg": fmt.Sprintf("You're doing that too fast! Try again in %d seconds.", secs),
		})
		return false
	}

	return true
}
