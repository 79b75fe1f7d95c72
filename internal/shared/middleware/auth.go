package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"petcare-backend/internal/shared"
	"petcare-backend/internal/shared/response"
	"petcare-backend/pkg/jwt"
	"petcare-backend/pkg/logger"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// AuthMiddleware verifies the bearer token and stores the caller's id and
// role in the gin context.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Debug("Rejected access token", map[string]interface{}{
				"request_id": c.GetString("request_id"),
				"error":      err.Error(),
			})
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		role := shared.Role(claims.Role)
		if !role.IsValid() {
			response.Unauthorized(c, "Invalid role in token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// ActorFromContext builds the Actor for the authenticated request.
func ActorFromContext(c *gin.Context) (shared.Actor, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return shared.Actor{}, false
	}
	role, ok := c.Get(ContextUserRole)
	if !ok {
		return shared.Actor{}, false
	}

	id, okID := userID.(uuid.UUID)
	r, okRole := role.(shared.Role)
	if !okID || !okRole {
		return shared.Actor{}, false
	}
	return shared.Actor{ID: id, Role: r}, true
}
