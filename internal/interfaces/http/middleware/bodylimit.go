package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/procurement/budget/internal/interfaces/http/dto"
)

// KindRequestTooLarge is the error kind for oversized request bodies
const KindRequestTooLarge = "REQUEST_TOO_LARGE"

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(KindRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		// Streaming bodies without a Content-Length are cut off by the reader
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
