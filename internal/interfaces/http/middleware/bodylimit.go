package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request body size at maxBytes. Requests declaring a
// larger Content-Length are rejected up front; chunked uploads without a
// declared length hit the cap while the handler reads the body.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
