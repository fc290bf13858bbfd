// Package apperr holds the error kinds every endpoint can fail with and
// their HTTP rendering.
package apperr

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrAuthenticationRequired = errors.New("authentication credentials were not provided or are invalid")
	ErrAuthorizationDenied    = errors.New("you do not have permission to perform this action")
	ErrNotFound               = errors.New("resource not found")
)

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field was reported.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthorizationDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Abort writes the error response for err and stops the handler chain.
// Internal errors are logged and replaced with a generic message.
func Abort(c *gin.Context, err error) {
	status := Status(err)
	body := gin.H{"error": err.Error()}

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		body = gin.H{"error": "validation failed", "fields": ve.Fields}
	case status == http.StatusInternalServerError:
		log.Printf("[http][err] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		body = gin.H{"error": "internal server error"}
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", `Bearer realm="api"`)
	}
	c.AbortWithStatusJSON(status, body)
}
