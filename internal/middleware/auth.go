package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/api"
	"github.com/pageza/mealplanner/backend/internal/apperr"
	"github.com/pageza/mealplanner/backend/internal/types"
)

// UsernameKey is the context key holding the authenticated username.
const UsernameKey = "username"

// TokenValidator is an interface for validating session tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware accepts the session cookie, or a Bearer token for non-browser
// clients.
func AuthMiddleware(validator TokenValidator, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			api.Error(c, log, apperr.Unauthorized(apperr.CodeUnauthorized, "Authentication required"))
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if !apperr.IsKind(err, apperr.KindUnauthorized) {
				err = apperr.Unauthorized(apperr.CodeTokenInvalid, "Invalid session")
			}
			api.Error(c, log, err)
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
