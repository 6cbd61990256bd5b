package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retail/backend/internal/infrastructure/logger"
)

// UserIDContextKey is the gin context key the caller's ID is stored under
const UserIDContextKey = "user_id"

// RequireUserID resolves the caller's identity from the X-User-ID header
// and stores it in the context. Requests without a parseable UUID are
// rejected before reaching handlers.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTHENTICATION_ERROR",
					"message": "Missing X-User-ID header",
				},
			})
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTHENTICATION_ERROR",
					"message": "X-User-ID must be a valid UUID",
				},
			})
			return
		}

		c.Set(UserIDContextKey, userID)

		// Tag the request-scoped logger so downstream log lines carry
		// the caller's identity.
		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), raw)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserID returns the caller's ID placed by RequireUserID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDContextKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
