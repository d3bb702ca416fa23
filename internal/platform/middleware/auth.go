package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/havenstay/service-rental/internal/platform/auth"
	"github.com/havenstay/service-rental/internal/platform/response"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer token into a principal stored on the
// context. Requests without a valid token are rejected with 401.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Message(c, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		p, err := jwtManager.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			response.Message(c, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// GetPrincipal returns the principal set by AuthMiddleware.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok && !p.IsZero()
}

// RequireOperation rejects principals the authorization policy denies op.
func RequireOperation(op auth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		if err := auth.Authorize(op, p); err != nil {
			response.Error(c, err)
			return
		}
		c.Next()
	}
}
