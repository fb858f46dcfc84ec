package banner

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/form"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
)

const createCooldown = 30 * time.Second

type Handler struct {
	svc     *Service
	limiter ratelimit.Limiter
}

func NewHandler(svc *Service, limiter ratelimit.Limiter) *Handler {
	return &Handler{svc: svc, limiter: limiter}
}

// RegisterRoutes mounts the banner admin page. r must already require an
// administrator.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/admin/banners", h.list)
	r.POST("/admin/banners", h.action)
}

func (h *Handler) list(c *gin.Context) {
	banners, err := h.svc.List(c.Request.Context())
	if err != nil {
		form.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

func (h *Handler) action(c *gin.Context) {
	user, _ := middleware.UserFromContext(c.Request.Context())
	ctx := c.Request.Context()
	id := c.PostForm("id")

	switch action := c.PostForm("action"); action {
	case "create":
		if !middleware.Allow(c, h.limiter, "createBanner", createCooldown) {
			return
		}

		_, err := h.svc.Create(ctx, user.ID, CreateInput{
			Text:      c.PostForm("bannerText"),
			Colour:    c.PostForm("bannerColour"),
			TextLight: c.PostForm("bannerTextLight") != "",
		})
		if err != nil {
			form.Abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"msg":     "Banner created successfully!",
			"area":    areaCreate,
		})

	case "show", "hide":
		if err := h.svc.SetActive(ctx, id, action == "show"); err != nil {
			form.Abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)

	case "delete":
		if err := h.svc.Delete(ctx, id); err != nil {
			form.Abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)

	case "updateBody":
		body := c.PostForm("bannerBody")
		if err := h.svc.UpdateBody(ctx, id, body); err != nil {
			form.Abort(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"msg":        "Banner updated successfully!",
			"area":       areaModal,
			"bannerBody": body,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Unknown action"})
	}
}
