// Package form carries validation failures from services to handlers.
package form

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tophat51/notarobloxrevival/internal/logger"
)

// Error is a user-facing failure. Area names the part of the page the
// message belongs to and may be empty.
type Error struct {
	Status int    `json:"-"`
	Area   string `json:"area,omitempty"`
	Msg    string `json:"msg"`
}

func (e *Error) Error() string {
	return e.Msg
}

func Fail(status int, msg string) *Error {
	return &Error{Status: status, Msg: msg}
}

func FailIn(status int, area, msg string) *Error {
	return &Error{Status: status, Area: area, Msg: msg}
}

// Abort answers with err as JSON. Anything that is not an *Error is
// logged and reported as a 500.
func Abort(c *gin.Context, err error) {
	var fe *Error
	if errors.As(err, &fe) {
		c.AbortWithStatusJSON(fe.Status, fe)
		return
	}

	logger.Error("request failed", map[string]any{
		"path":  c.FullPath(),
		"error": err.Error(),
	})
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
}
