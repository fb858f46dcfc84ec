package feed

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/form"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
)

const statusCooldown = 30 * time.Second

type statusForm struct {
	Status string `form:"status" binding:"required,min=1,max=1000"`
}

type Handler struct {
	svc     *Service
	limiter ratelimit.Limiter
}

func NewHandler(svc *Service, limiter ratelimit.Limiter) *Handler {
	return &Handler{svc: svc, limiter: limiter}
}

// RegisterRoutes mounts the home page. Both routes require a user.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	home := r.Group("/home", middleware.GinRequireUser())
	home.GET("", h.load)
	home.POST("", h.postStatus)
}

func (h *Handler) load(c *gin.Context) {
	user, _ := middleware.UserFromContext(c.Request.Context())

	home, err := h.svc.Home(c.Request.Context(), user)
	if err != nil {
		form.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, home)
}

func (h *Handler) postStatus(c *gin.Context) {
	var in statusForm
	if err := c.ShouldBind(&in); err != nil {
		form.Abort(c, form.Fail(http.StatusBadRequest, "Status must be between 1 and 1000 characters"))
		return
	}

	if !middleware.Allow(c, h.limiter, "statusPost", statusCooldown) {
		return
	}

	user, _ := middleware.UserFromContext(c.Request.Context())
	if _, err := h.svc.PostStatus(c.Request.Context(), user, in.Status); err != nil {
		form.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
