package group

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/form"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/groups/create", middleware.GinRequireUser(), h.create)
}

func (h *Handler) create(c *gin.Context) {
	user, _ := middleware.UserFromContext(c.Request.Context())

	g, err := h.svc.Create(c.Request.Context(), user, c.PostForm("name"))
	if err != nil {
		form.Abort(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/groups/"+url.PathEscape(g.Name))
}
