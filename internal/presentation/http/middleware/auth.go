package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/shundor-pos/pkg/utils"
)

const (
	// ClientIDKey is the gin context key holding the calling register's id
	ClientIDKey = "client_id"
	// AnonymousClient identifies callers when authentication is disabled
	AnonymousClient = "anonymous"
)

// AuthMiddleware requires a register bearer token and records the register
// id as the client id
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ClientIDKey, claims.RegisterID)
		c.Next()
	}
}

// GetClientID returns the authenticated register id, or AnonymousClient
func GetClientID(c *gin.Context) string {
	if id := c.GetString(ClientIDKey); id != "" {
		return id
	}
	return AnonymousClient
}
