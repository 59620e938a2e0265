package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type stubAllowlist struct {
	repository.AllowlistRepository

	entry *model.AllowedEmail
	err   error
}

func (s *stubAllowlist) FindActiveByEmail(_ context.Context, _ string) (*model.AllowedEmail, error) {
	return s.entry, s.err
}

func signToken(t *testing.T, email string) string {
	t.Helper()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func authRequest(t *testing.T, allowlist repository.AllowlistRepository, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret, allowlist))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetPrincipal(c).Role})
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeaderIs401(t *testing.T) {
	w := authRequest(t, &stubAllowlist{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthBadTokenIs401(t *testing.T) {
	w := authRequest(t, &stubAllowlist{}, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAllowlistedCallerGetsPrincipal(t *testing.T) {
	stub := &stubAllowlist{entry: &model.AllowedEmail{Email: "a@b.c", Role: model.RoleAdmin, Active: true}}

	w := authRequest(t, stub, "Bearer "+signToken(t, "a@b.c"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestAuthMissingAllowlistEntryIs403(t *testing.T) {
	stub := &stubAllowlist{err: gorm.ErrRecordNotFound}

	w := authRequest(t, stub, "Bearer "+signToken(t, "a@b.c"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "allowlist")
}

func TestAuthAllowlistStoreFailureIs500(t *testing.T) {
	// A database outage is not an authorization verdict.
	stub := &stubAllowlist{err: errors.New("connection refused")}

	w := authRequest(t, stub, "Bearer "+signToken(t, "a@b.c"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "allowlist")
}
