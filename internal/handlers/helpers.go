package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/apperr"
	"taskmanager/internal/authz"
	"taskmanager/internal/middleware"
)

// caller returns the authenticated principal, or the zero value on public routes.
func caller(c *gin.Context) authz.Principal {
	if p := middleware.PrincipalFrom(c); p != nil {
		return *p
	}
	return authz.Principal{}
}

// bindJSON decodes the body into dst. An empty body decodes as {} so that
// missing fields are reported by validation; decode failures become field errors.
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	verr := apperr.NewValidationError()
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		verr.Add(typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
		return verr
	}
	verr.Add("non_field_errors", "malformed JSON: "+err.Error())
	return verr
}

// parseID treats an id that is not a positive integer as a missing resource.
func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}
