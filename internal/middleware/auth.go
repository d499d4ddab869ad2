package middleware

import (
	"crypto/subtle"

	"seatswap/internal/common"

	"github.com/gin-gonic/gin"
)

// Auth returns middleware that validates the X-API-Key header against
// configured keys. This is service-to-service authentication: the callers
// are the marketplace backend services, not end users.
func Auth(validKeys []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			common.HandleError(c, common.NewUnauthorizedError("missing X-API-Key header"))
			c.Abort()
			return
		}

		if !isValidKey(apiKey, validKeys) {
			common.HandleError(c, common.NewUnauthorizedError("invalid API key"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// isValidKey checks the provided key against the list of valid keys using
// constant-time comparison.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
			return true
		}
	}
	return false
}
