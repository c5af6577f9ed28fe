package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "tripbudget/internal/errors"
)

// AdminKeyMiddleware guards operational endpoints with the X-API-Key
// header. With no key configured the endpoints are disabled.
func AdminKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			abortWithError(c, apperrors.ErrAdminDisabled)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
