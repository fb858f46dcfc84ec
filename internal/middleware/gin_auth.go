package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/auth"
)

// GinSessions adapts LoadSession to Gin.
func GinSessions(a *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})

		a.LoadSession(next).ServeHTTP(c.Writer, c.Request)

		// LoadSession answered on its own, stop the Gin chain
		if !called {
			c.Abort()
		}
	}
}

// GinRequireUser answers 401 unless a user is signed in.
func GinRequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not signed in"})
			return
		}
		c.Next()
	}
}

// GinRequireAdmin answers 401 for anonymous and 403 for non-admin users.
func GinRequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not signed in"})
			return
		}
		if !auth.IsAdmin(u) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Administrator access required"})
			return
		}
		c.Next()
	}
}
