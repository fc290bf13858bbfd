package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskmanager/internal/authz"
	"taskmanager/internal/middleware"
	"taskmanager/internal/testutil"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := middleware.NewAuthenticator(testutil.JWTSecret, 0)

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Use(auth.AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "admin": p.IsAdmin()})
	})
	r.GET("/admin", middleware.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func do(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsBadCredentials(t *testing.T) {
	r := newRouter()

	expired := testutil.Token(t, 1, authz.RoleMember, -time.Hour)
	wrongKey := testutil.SignedToken(t, "other-secret", jwt.MapClaims{
		"user_id": 1, "role_id": authz.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	})
	noExp := testutil.SignedToken(t, testutil.JWTSecret, jwt.MapClaims{"user_id": 1, "role_id": authz.RoleMember})
	noUser := testutil.SignedToken(t, testutil.JWTSecret, jwt.MapClaims{
		"role_id": authz.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	})
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1, "role_id": authz.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic dXNlcjpwYXNz",
		"empty bearer":   "Bearer   ",
		"garbage":        "Bearer not-a-jwt",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + wrongKey,
		"no exp":         "Bearer " + noExp,
		"no user":        "Bearer " + noUser,
		"alg none":       "Bearer " + none,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, "/me", header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("code = %d, want 401; body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	r := newRouter()

	w := do(r, "/me", "bearer "+testutil.Token(t, 42, authz.RoleMember, time.Hour))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d; body=%s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != `{"admin":false,"user_id":42}` {
		t.Errorf("body = %s", got)
	}
}

func TestPublicPathSkipsAuth(t *testing.T) {
	r := newRouter()
	if w := do(r, "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz code = %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter()

	if w := do(r, "/admin", "Bearer "+testutil.Token(t, 1, authz.RoleMember, time.Hour)); w.Code != http.StatusForbidden {
		t.Errorf("member code = %d, want 403", w.Code)
	}
	if w := do(r, "/admin", "Bearer "+testutil.Token(t, 1, authz.RoleAdmin, time.Hour)); w.Code != http.StatusOK {
		t.Errorf("admin code = %d, want 200", w.Code)
	}
	if w := do(r, "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous code = %d, want 401", w.Code)
	}
}
