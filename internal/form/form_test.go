package form

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func abortWith(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	Abort(c, err)
	return w
}

func TestAbortFormError(t *testing.T) {
	w := abortWith(FailIn(http.StatusBadRequest, "create", "Missing fields"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"area":"create","msg":"Missing fields"}`, w.Body.String())
}

func TestAbortWithoutArea(t *testing.T) {
	w := abortWith(Fail(http.StatusPaymentRequired, "insufficient balance"))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"msg":"insufficient balance"}`, w.Body.String())
}

func TestAbortInternal(t *testing.T) {
	w := abortWith(errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
