package middleware

import (
	"errors"
	"net/http"
	"strings"

	"noteful/internal/auth"
	"noteful/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// principalKey is where the authenticated principal lives on the gin
// context.
const principalKey = "principal"

// AuthRequired authenticates the Authorization header with the token
// strategy and attaches the principal to the request context. Every
// failure mode returns the same body so nothing leaks about which check
// tripped.
func AuthRequired(strategy *auth.TokenStrategy, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(c)
			return
		}

		principal, err := strategy.Authenticate(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				logger.Debug("Rejected expired token")
			}
			unauthorized(c)
			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
}

// PrincipalFromContext returns the principal set by AuthRequired. It
// panics if the route was not behind the middleware, which is a wiring
// bug, not a runtime condition.
func PrincipalFromContext(c *gin.Context) models.Principal {
	return c.MustGet(principalKey).(models.Principal)
}
