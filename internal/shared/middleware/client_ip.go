package middleware

import (
	"github.com/gin-gonic/gin"

	"petcare-backend/internal/shared/utils"
)

const ContextClientIP = "client_ip"

// ClientIPMiddleware resolves the originating client address once per request.
// Payment providers require it on checkout requests.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, utils.NormalizeIPv4(utils.ExtractClientIP(c)))
		c.Next()
	}
}

// GetClientIP returns the address set by ClientIPMiddleware, falling back to
// resolving it directly.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIP); ip != "" {
		return ip
	}
	return utils.NormalizeIPv4(utils.ExtractClientIP(c))
}
