package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
)

type onceLimiter struct {
	seen map[string]bool
	err  error
}

func (l *onceLimiter) Allow(_ context.Context, key string, period time.Duration) (*ratelimit.Result, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.seen[key] {
		return &ratelimit.Result{Allowed: false, RetryAfter: period}, nil
	}
	l.seen[key] = true
	return &ratelimit.Result{Allowed: true}, nil
}

func TestRateLimit(t *testing.T) {
	l := &onceLimiter{seen: map[string]bool{}}
	r := gin.New()
	r.POST("/", RateLimit(l, "statusPost", 30*time.Second), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		return w
	}

	assert.Equal(t, http.StatusNoContent, post().Code)

	w := post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	l := &onceLimiter{err: errors.New("redis down")}
	r := gin.New()
	r.POST("/", RateLimit(l, "statusPost", time.Second), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
