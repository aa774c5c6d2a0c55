package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	jwtinfra "github.com/people-registry-api/internal/infrastructure/jwt"
)

func requestWithClaims(claims *jwtinfra.Claims) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if claims == nil {
		return req
	}
	ctx := context.WithValue(req.Context(), ClaimsKey, claims)
	return req.WithContext(ctx)
}

func TestRequireAdmin_NoClaims(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireAdmin()(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithClaims(nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	rr := httptest.NewRecorder()
	claims := &jwtinfra.Claims{PersonID: "p1", IsAdmin: false}
	RequireAdmin()(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithClaims(claims))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdmin_Admin(t *testing.T) {
	rr := httptest.NewRecorder()
	claims := &jwtinfra.Claims{PersonID: "p1", IsAdmin: true}
	RequireAdmin()(http.HandlerFunc(okHandler)).ServeHTTP(rr, requestWithClaims(claims))
	assert.Equal(t, http.StatusOK, rr.Code)
}
