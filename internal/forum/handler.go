package forum

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

// RegisterRoutes mounts the create-post page. Posting requires a user.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/forum/create", h.load)
	r.POST("/forum/create", middleware.GinRequireUser(), h.create)
}

func (h *Handler) load(c *gin.Context) {
	category, err := h.svc.Category(c.Request.Context(), c.Query("category"))
	if err != nil {
		form.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": category.Name})
}

func (h *Handler) create(c *gin.Context) {
	user, _ := middleware.UserFromContext(c.Request.Context())

	post, err := h.svc.CreatePost(c.Request.Context(), user.ID, CreatePostInput{
		Category: c.Query("category"),
		Title:    c.PostForm("title"),
		Content:  c.PostForm("content"),
	})
	if err != nil {
		form.Abort(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/forum/"+url.PathEscape(post.ForumCategoryName)+"/"+post.ID.String())
}
