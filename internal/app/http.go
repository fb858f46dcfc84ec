package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/auth/credentials"
	"github.com/tophat51/notarobloxrevival/internal/auth/handler"
	"github.com/tophat51/notarobloxrevival/internal/auth/provider"
	"github.com/tophat51/notarobloxrevival/internal/auth/provider/oidc"
	"github.com/tophat51/notarobloxrevival/internal/auth/resolver"
	"github.com/tophat51/notarobloxrevival/internal/banner"
	"github.com/tophat51/notarobloxrevival/internal/config"
	"github.com/tophat51/notarobloxrevival/internal/economy"
	"github.com/tophat51/notarobloxrevival/internal/feed"
	"github.com/tophat51/notarobloxrevival/internal/forum"
	"github.com/tophat51/notarobloxrevival/internal/graph"
	"github.com/tophat51/notarobloxrevival/internal/group"
	"github.com/tophat51/notarobloxrevival/internal/metrics"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config, infra *Infra, a *auth.Auth, m *metrics.Metrics) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	limiter := ratelimit.NewRedisLimiter(infra.Redis.Client)
	gdb := infra.DB.Gorm()

	cookie := session.CookieOptions{
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	var providers []provider.OAuthProvider
	for _, pc := range cfg.OIDCProviders {
		p, err := oidc.New(ctx, pc)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	registry := provider.NewRegistry(providers...)

	authHandler := handler.NewHandler(
		registry,
		a,
		resolver.NewDBResolver(infra.DB),
		credentials.NewService(infra.DB),
		limiter,
		cookie,
	)

	bannerHandler := banner.NewHandler(banner.NewService(banner.NewRepository(gdb)), limiter)
	forumHandler := forum.NewHandler(forum.NewService(forum.NewRepository(gdb)))
	groupHandler := group.NewHandler(group.NewService(group.NewRepository(gdb), economy.New(cfg.EconomyURL)))
	feedHandler := feed.NewHandler(
		feed.NewService(feed.NewRepository(gdb), graph.New(infra.Redis.Client, cfg.FriendsGraph)),
		limiter,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.Logging(),
		middleware.Metrics(m),
		middleware.GinSessions(middleware.NewAuthMiddleware(a, cookie)),
	)

	// ----------------------------
	// Public Routes
	// ----------------------------

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.GET("/auth/providers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"providers": registry.Names()})
	})

	authHandler.RegisterRoutes(router)
	forumHandler.RegisterRoutes(router)
	groupHandler.RegisterRoutes(router)
	feedHandler.RegisterRoutes(router)

	// ----------------------------
	// Protected Routes
	// ----------------------------

	api := router.Group("/api", middleware.GinRequireUser())
	api.GET("/me", func(c *gin.Context) {
		u, _ := middleware.UserFromContext(c.Request.Context())
		c.JSON(http.StatusOK, u.Attributes)
	})

	admin := router.Group("/", middleware.GinRequireAdmin())
	bannerHandler.RegisterRoutes(admin)

	return router, nil
}
