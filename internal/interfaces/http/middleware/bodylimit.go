package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/interfaces/http/dto"
)

// DefaultCredentialsBodyLimit bounds login and token request bodies
const DefaultCredentialsBodyLimit = 16 << 10

// BodyLimit rejects declared oversized bodies with 413 and caps the rest
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				"Request body exceeds maximum allowed size",
				c.GetString(RequestIDContextKey),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
