package middleware

import (
	"net/http"
	"strings"

	"heartlink_backend/internal/auth"
	"heartlink_backend/internal/logger"
	"heartlink_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the user ID in the
// gin context and the request context (for log enrichment).
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(string(contextkeys.UserIDContextKey), claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}
