package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret is the signing key used by test routers.
const JWTSecret = "test-secret"

// Token mints an HS256 bearer token the way the identity provider does.
func Token(t *testing.T, userID, roleID int, ttl time.Duration) string {
	t.Helper()
	return SignedToken(t, JWTSecret, jwt.MapClaims{
		"user_id": userID,
		"role_id": roleID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
}

func SignedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
