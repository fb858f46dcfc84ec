package banner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
	"github.com/tophat51/notarobloxrevival/internal/ratelimit"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

type allowAll struct{}

func (allowAll) Allow(context.Context, string, time.Duration) (*ratelimit.Result, error) {
	return &ratelimit.Result{Allowed: true}, nil
}

func newRouter(repo Repository, level int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		u := &session.User{ID: adminID, Attributes: session.UserAttributes{
			ID:              adminID,
			Username:        "admin",
			PermissionLevel: level,
		}}
		c.Request = c.Request.WithContext(middleware.WithUser(c.Request.Context(), &auth.ValidatedSession{}, u))
	})
	r.Use(middleware.GinRequireAdmin())

	NewHandler(NewService(repo), allowAll{}).RegisterRoutes(r)
	return r
}

func postForm(r http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/banners", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerCreate(t *testing.T) {
	repo := newMemRepo()
	r := newRouter(repo, auth.PermissionAdmin)

	w := postForm(r, url.Values{
		"action":          {"create"},
		"bannerText":      {"Welcome back"},
		"bannerColour":    {"#123456"},
		"bannerTextLight": {"on"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"msg":"Banner created successfully!","area":"create"}`, w.Body.String())
	require.Len(t, repo.banners, 1)
	for _, b := range repo.banners {
		assert.True(t, b.TextLight)
		assert.Equal(t, "#123456", b.BgColour)
	}
}

func TestHandlerCreateMissingFields(t *testing.T) {
	r := newRouter(newMemRepo(), auth.PermissionAdmin)

	w := postForm(r, url.Values{"action": {"create"}, "bannerText": {"Welcome back"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"area":"create","msg":"Missing fields"}`, w.Body.String())
}

func TestHandlerUpdateBodyEchoes(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	b, err := svc.Create(context.Background(), adminID, CreateInput{Text: "banner", Colour: "#000"})
	require.NoError(t, err)

	r := newRouter(repo, auth.PermissionAdmin)
	w := postForm(r, url.Values{"action": {"updateBody"}, "id": {b.ID.String()}, "bannerBody": {"edited"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"msg":"Banner updated successfully!","area":"modal","bannerBody":"edited"}`, w.Body.String())
}

func TestHandlerRequiresAdmin(t *testing.T) {
	r := newRouter(newMemRepo(), auth.PermissionUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/banners", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
