package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskmanager/internal/apperr"
	"taskmanager/internal/authz"
)

const principalKey = "principal"

type Claims struct {
	UserID int `json:"user_id"`
	RoleID int `json:"role_id"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens issued by the identity provider.
type Authenticator struct {
	key    []byte
	leeway time.Duration
	now    func() time.Time
}

func NewAuthenticator(secret string, leeway time.Duration) *Authenticator {
	return &Authenticator{key: []byte(secret), leeway: leeway, now: time.Now}
}

// endpoints that do not require a token
func isPublicPath(path string) bool {
	if path == "/healthz" {
		return true
	}
	return strings.HasPrefix(path, "/swagger")
}

var errMalformedHeader = errors.New("missing or invalid Authorization header")

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMalformedHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedHeader
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", errMalformedHeader
	}
	return tok, nil
}

// Verify parses a raw token and returns the principal it names.
func (a *Authenticator) Verify(tokenStr string) (*authz.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.key, nil
	},
		jwt.WithLeeway(a.leeway),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, apperr.ErrAuthenticationRequired
	}
	if claims.UserID <= 0 {
		return nil, apperr.ErrAuthenticationRequired
	}
	return &authz.Principal{UserID: claims.UserID, RoleID: claims.RoleID}, nil
}

// AuthMiddleware rejects every non-public request without a valid token
// and stores the caller identity in the gin context.
func (a *Authenticator) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenStr, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			apperr.Abort(c, apperr.ErrAuthenticationRequired)
			return
		}
		p, err := a.Verify(tokenStr)
		if err != nil {
			apperr.Abort(c, err)
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// PrincipalFrom returns the identity set by AuthMiddleware, or nil.
func PrincipalFrom(c *gin.Context) *authz.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}
