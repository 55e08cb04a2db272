// Package response centralizes the JSON envelopes returned to clients. Every
// success carries {"success": true}; every failure carries {"success": false}
// and a human-readable message. Upstream failures never leak their internal
// message.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/apperr"
)

const genericServerError = "internal server error, please try again later"

// OK sends a 200 response merging the given fields into a success envelope.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail sends an error response with an explicit status and message.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	Fail(c, http.StatusMethodNotAllowed, "method not allowed")
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, message)
}

// InternalError sends a 500 error response with a generic message.
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, genericServerError)
}

// Error maps an application error to its response. Validation-type errors
// keep their own message; everything else becomes a generic server error.
func Error(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindUpstream {
		InternalError(c)
		return
	}
	Fail(c, appErr.StatusCode(), appErr.Message)
}
