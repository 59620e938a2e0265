package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/apierror"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const PrincipalKey = "principal"

// Claims are the claims the identity provider embeds in staff tokens.
// Only the email matters to the portal; authorization is decided by the
// allowlist, not by anything inside the token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller as resolved against the allowlist.
type Principal struct {
	Email string
	Role  string
}

// Auth validates the Bearer token on every protected route and resolves the
// caller's role through the allowlist. A valid token whose email has no
// active allowlist entry is authenticated but not authorized, so 403.
func Auth(secret string, allowlist repository.AllowlistRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		entry, err := allowlist.FindActiveByEmail(c.Request.Context(), strings.ToLower(claims.Email))
		if err != nil {
			// Only an actual miss is an authorization decision; a store
			// failure must not read as "not allowed".
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("email not on the allowlist"))
				return
			}
			log.Error().Err(err).Msg("auth: allowlist lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("internal server error"))
			return
		}

		c.Set(PrincipalKey, &Principal{Email: entry.Email, Role: entry.Role})
		c.Next()
	}
}

// RequireRole rejects requests whose resolved role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p, ok := c.MustGet(PrincipalKey).(*Principal)
		if !ok || !allowed[p.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetPrincipal is a helper to retrieve the typed principal from the Gin context.
func GetPrincipal(c *gin.Context) *Principal {
	p, _ := c.MustGet(PrincipalKey).(*Principal)
	return p
}
