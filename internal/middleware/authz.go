package middleware

import (
	"github.com/gin-gonic/gin"

	"taskmanager/internal/apperr"
	"taskmanager/internal/authz"
)

// RequireAuthenticated guards a route group even if AuthMiddleware was
// skipped for it.
func RequireAuthenticated() gin.HandlerFunc {
	return gate(authz.RequireAuthenticated)
}

// RequireAdmin lets only administrators through (401 anonymous, 403 others).
func RequireAdmin() gin.HandlerFunc {
	return gate(authz.RequireAdmin)
}

func gate(check func(*authz.Principal) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := check(PrincipalFrom(c)); err != nil {
			apperr.Abort(c, err)
			return
		}
		c.Next()
	}
}
