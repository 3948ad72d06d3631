package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"leadintake/internal/pkg/jwt"
	"leadintake/internal/pkg/response"
)

const (
	ctxUsername = "admin_username"
	ctxRole     = "role"
)

// AdminJWTAuth requires a valid admin token, taken from the Authorization
// header or, for websocket upgrades, from the token query parameter.
func AdminJWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
				c.Abort()
				return
			}
			token = strings.TrimSpace(parts[1])
		}

		if token == "" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.Role != RoleAdmin {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}

		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}
