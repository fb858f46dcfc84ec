package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/auth/credentials"
	"github.com/tophat51/notarobloxrevival/internal/auth/provider"
	"github.com/tophat51/notarobloxrevival/internal/auth/resolver"
	"github.com/tophat51/notarobloxrevival/internal/form"
	"github.com/tophat51/notarobloxrevival/internal/logger"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

const signInCooldown = 5 * time.Second

// Sessions is the part of auth.Auth the handlers drive.
type Sessions interface {
	CreateSession(ctx context.Context, userID string) (*auth.ValidatedSession, error)
	InvalidateSession(ctx context.Context, sessionID string) error
	InvalidateUserSessions(ctx context.Context, userID string) error
	GetUserSessions(ctx context.Context, userID string) ([]session.Session, error)
}

type Credentials interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
}

type Handler struct {
	providers   *provider.Registry
	sessions    Sessions
	resolver    resolver.Resolver
	credentials Credentials
	limiter     ratelimit.Limiter
	cookie      session.CookieOptions
}

func NewHandler(
	registry *provider.Registry,
	sessions Sessions,
	resolver resolver.Resolver,
	credentials Credentials,
	limiter ratelimit.Limiter,
	cookie session.CookieOptions,
) *Handler {
	return &Handler{
		providers:   registry,
		sessions:    sessions,
		resolver:    resolver,
		credentials: credentials,
		limiter:     limiter,
		cookie:      cookie,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)

	r.POST("/auth/register", middleware.RateLimit(h.limiter, "register", signInCooldown), h.register)
	r.POST("/auth/login", middleware.RateLimit(h.limiter, "login", signInCooldown), h.login)
	r.POST("/auth/logout", h.logout)

	signedIn := r.Group("/auth", middleware.GinRequireUser())
	signedIn.GET("/sessions", h.listSessions)
	signedIn.POST("/logout-all", h.logoutAll)
}

// signIn starts a session for userID and hands its cookie to the client.
func (h *Handler) signIn(c *gin.Context, userID string) bool {
	s, err := h.sessions.CreateSession(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to create session", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Failed to create session"})
		return false
	}

	session.SetCookie(c.Writer, &s.Session, h.cookie)

	logger.Info("login success", map[string]any{
		"user_id": userID,
		"ip":      c.ClientIP(),
	})
	return true
}

func (h *Handler) register(c *gin.Context) {
	userID, err := h.credentials.Register(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("email"),
		c.PostForm("password"),
	)
	switch {
	case errors.Is(err, credentials.ErrInvalidUsername),
		errors.Is(err, credentials.ErrPasswordTooShort):
		form.Abort(c, form.Fail(http.StatusBadRequest, err.Error()))
		return
	case errors.Is(err, credentials.ErrUsernameTaken):
		form.Abort(c, form.Fail(http.StatusBadRequest, "This username is already in use"))
		return
	case err != nil:
		form.Abort(c, err)
		return
	}

	if !h.signIn(c, userID) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

func (h *Handler) login(c *gin.Context) {
	userID, err := h.credentials.Authenticate(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
	)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		form.Abort(c, form.Fail(http.StatusUnauthorized, "Incorrect username or password"))
		return
	}
	if err != nil {
		form.Abort(c, err)
		return
	}

	if !h.signIn(c, userID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

func (h *Handler) oauthLogin(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown oauth provider"})
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		form.Abort(c, err)
		return
	}
	challenge, err := h.generatePKCE(c)
	if err != nil {
		form.Abort(c, err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown oauth provider"})
		return
	}

	if !h.validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid state"})
		return
	}

	// The user backed out or the provider refused. Start over.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "missing code"})
		return
	}

	verifier := h.pkceVerifier(c)
	if verifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing pkce verifier"})
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, verifier)
	if err != nil {
		logger.Warn("oidc code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "authentication failed"})
		return
	}

	userID, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		form.Abort(c, err)
		return
	}

	if !h.signIn(c, userID) {
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

func (h *Handler) logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.InvalidateSession(c.Request.Context(), cookie.Value); err != nil {
			form.Abort(c, err)
			return
		}
	}

	session.ClearCookie(c.Writer, h.cookie)
	c.Status(http.StatusNoContent)
}

func (h *Handler) logoutAll(c *gin.Context) {
	user, _ := middleware.UserFromContext(c.Request.Context())

	if err := h.sessions.InvalidateUserSessions(c.Request.Context(), user.ID); err != nil {
		form.Abort(c, err)
		return
	}

	session.ClearCookie(c.Writer, h.cookie)
	c.Status(http.StatusNoContent)
}

type sessionView struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Current   bool      `json:"current"`
}

func (h *Handler) listSessions(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.UserFromContext(ctx)
	current, _ := middleware.SessionFromContext(ctx)

	sessions, err := h.sessions.GetUserSessions(ctx, user.ID)
	if err != nil {
		form.Abort(c, err)
		return
	}

	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionView{
			ExpiresAt: s.ExpiresAt,
			Current:   current != nil && s.ID == current.ID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}
