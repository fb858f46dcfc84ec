package middleware

import (
	"context"
	"net/http"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/logger"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

// unexported, collision-proof context keys
type (
	userContextKeyType    struct{}
	sessionContextKeyType struct{}
)

var (
	userKey    = userContextKeyType{}
	sessionKey = sessionContextKeyType{}
)

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (*session.User, bool) {
	u, ok := ctx.Value(userKey).(*session.User)
	return u, ok && u != nil
}

func SessionFromContext(ctx context.Context) (*auth.ValidatedSession, bool) {
	s, ok := ctx.Value(sessionKey).(*auth.ValidatedSession)
	return s, ok && s != nil
}

// WithUser attaches a validated session and its user to ctx.
func WithUser(ctx context.Context, s *auth.ValidatedSession, u *session.User) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	return context.WithValue(ctx, userKey, u)
}

type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) (*auth.ValidatedSession, *session.User, error)
}

type AuthMiddleware struct {
	Auth   SessionValidator
	Cookie session.CookieOptions
}

func NewAuthMiddleware(a SessionValidator, cookie session.CookieOptions) *AuthMiddleware {
	return &AuthMiddleware{Auth: a, Cookie: cookie}
}

// LoadSession validates the session cookie on every request. Anonymous
// requests pass through without a user in the context.
func (a *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !session.ValidID(cookie.Value) {
			session.ClearCookie(w, a.Cookie)
			next.ServeHTTP(w, r)
			return
		}

		sess, user, err := a.Auth.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			logger.Error("session validation failed", map[string]any{
				"error": err.Error(),
			})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if sess == nil {
			session.ClearCookie(w, a.Cookie)
			next.ServeHTTP(w, r)
			return
		}

		if sess.Fresh {
			session.SetCookie(w, &sess.Session, a.Cookie)
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), sess, user)))
	})
}

// RequireAuth rejects requests without a signed-in user. It must run
// after LoadSession.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
