// Package httpkit holds the gin glue shared by every module: response
// envelopes, request binding, actor resolution and middleware.
package httpkit

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kam_backend/platform/apperr"
	"kam_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// BindJSON decodes the body into dst and runs struct validation. On failure
// it writes a 400 and returns false. Field-level problems are listed under
// details keyed by JSON field name.
func BindJSON(c *gin.Context, val *validator.Validator, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := val.Struct(dst); err != nil {
		Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

// QueryInt reads an integer query parameter. Absent, non-numeric and
// below-minimum values fall back to def.
func QueryInt(c *gin.Context, key string, def, minimum int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < minimum {
		return def
	}
	return value
}

// Attachment sets the headers for a downloadable body and a 200 status.
// The caller writes the body to c.Writer.
func Attachment(c *gin.Context, filename, contentType string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
}

// HandleError writes err as a response and reports whether it did.
// An *apperr.Error in the chain decides the status; anything else is a 500
// with a generic message. The error is attached to the gin context so the
// request logger records it.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		Error(c, domainErr.HTTPStatus(), domainErr.Message, domainErr.Details)
		return true
	}

	Error(c, http.StatusInternalServerError, "internal server error", nil)
	return true
}
