package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/construlink/contracts-admin/internal/auth"
	"github.com/construlink/contracts-admin/internal/model"
)

const (
	principalKey = "principal"
	tokenIDKey   = "token_id"
)

// Auth validates the bearer token and stores the principal in the
// request context. Stream endpoints may pass the token as a query
// parameter since EventSource cannot set headers.
func Auth(parser *auth.Parser, revoker *auth.Revoker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		principal, tokenID, err := parser.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if revoker.IsRevoked(tokenID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(principalKey, principal)
		c.Set(tokenIDKey, tokenID)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Unauthorized principals
// get 403, matching the console redirect for authenticated non-admins.
func RequireRole(role model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
			return
		}
		if principal.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	return principal, ok
}

func TokenID(c *gin.Context) string {
	value, ok := c.Get(tokenIDKey)
	if !ok {
		return ""
	}
	tokenID, _ := value.(string)
	return tokenID
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.Query("access_token"))
}
