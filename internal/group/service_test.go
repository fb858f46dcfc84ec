package group

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tophat51/notarobloxrevival/internal/auth"
	"github.com/tophat51/notarobloxrevival/internal/economy"
	"github.com/tophat51/notarobloxrevival/internal/form"
	"github.com/tophat51/notarobloxrevival/internal/middleware"
	"github.com/tophat51/notarobloxrevival/internal/session"
)

type memRepo struct {
	groups map[string]*Group
	// steal makes Create fail as if another request took the name.
	steal bool
}

func (r *memRepo) Exists(_ context.Context, name string) (bool, error) {
	_, ok := r.groups[name]
	return ok, nil
}

func (r *memRepo) Create(_ context.Context, g *Group) error {
	if r.steal {
		return ErrNameTaken
	}
	r.groups[g.Name] = g
	return nil
}

type fakeEconomy struct {
	txs []economy.Tx
	err error
}

func (e *fakeEconomy) Transact(_ context.Context, tx economy.Tx) error {
	if e.err != nil {
		return e.err
	}
	e.txs = append(e.txs, tx)
	return nil
}

var owner = &session.User{
	ID: "7a2b8c1d-0e3f-4a5b-8c6d-7e8f9a0b1c2d",
	Attributes: session.UserAttributes{
		ID:       "7a2b8c1d-0e3f-4a5b-8c6d-7e8f9a0b1c2d",
		Username: "builder",
		Number:   42,
	},
}

func requireFormError(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var fe *form.Error
	require.True(t, errors.As(err, &fe), "expected form error, got %v", err)
	assert.Equal(t, status, fe.Status)
	assert.Equal(t, msg, fe.Msg)
}

func TestCreate(t *testing.T) {
	repo := &memRepo{groups: map[string]*Group{}}
	econ := &fakeEconomy{}

	g, err := NewService(repo, econ).Create(context.Background(), owner, "Builders")
	require.NoError(t, err)

	assert.Equal(t, "builder", g.OwnerUsername)
	assert.Contains(t, repo.groups, "Builders")

	require.Len(t, econ.txs, 1)
	tx := econ.txs[0]
	assert.Equal(t, int64(42), tx.From)
	assert.Equal(t, int64(1), tx.To)
	assert.Equal(t, economy.Currency(10_000_000), tx.Amount)
	assert.Equal(t, "/groups/Builders", tx.Link)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&memRepo{groups: map[string]*Group{}}, &fakeEconomy{})
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, "")
	requireFormError(t, err, http.StatusBadRequest, "Missing fields")

	_, err = svc.Create(ctx, owner, "ab")
	requireFormError(t, err, http.StatusBadRequest, "Invalid fields")

	_, err = svc.Create(ctx, owner, strings.Repeat("a", 41))
	requireFormError(t, err, http.StatusBadRequest, "Invalid fields")

	_, err = svc.Create(ctx, owner, "create")
	requireFormError(t, err, http.StatusBadRequest, "That group name is reserved")
}

func TestCreateDuplicateDoesNotCharge(t *testing.T) {
	repo := &memRepo{groups: map[string]*Group{"Builders": {Name: "Builders"}}}
	econ := &fakeEconomy{}

	_, err := NewService(repo, econ).Create(context.Background(), owner, "Builders")
	requireFormError(t, err, http.StatusBadRequest, "A group with this name already exists")
	assert.Empty(t, econ.txs)
}

func TestCreatePaymentRequired(t *testing.T) {
	repo := &memRepo{groups: map[string]*Group{}}
	econ := &fakeEconomy{err: &economy.Error{Status: http.StatusBadRequest, Msg: "insufficient balance"}}

	_, err := NewService(repo, econ).Create(context.Background(), owner, "Builders")
	requireFormError(t, err, http.StatusPaymentRequired, "insufficient balance")
	assert.Empty(t, repo.groups)
}

func TestCreateLostRace(t *testing.T) {
	repo := &memRepo{groups: map[string]*Group{}, steal: true}

	_, err := NewService(repo, &fakeEconomy{}).Create(context.Background(), owner, "Builders")
	requireFormError(t, err, http.StatusBadRequest, "A group with this name already exists")
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &memRepo{groups: map[string]*Group{}}
	h := NewHandler(NewService(repo, &fakeEconomy{}))

	anon := gin.New()
	h.RegisterRoutes(anon)

	signedIn := gin.New()
	signedIn.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithUser(c.Request.Context(), &auth.ValidatedSession{}, owner))
	})
	h.RegisterRoutes(signedIn)

	post := func(r http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/groups/create", strings.NewReader(url.Values{"name": {"Builders"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, post(anon).Code)

	w := post(signedIn)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/groups/Builders", w.Header().Get("Location"))
}
