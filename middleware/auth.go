package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hall-backend/services"
	"hall-backend/utils"
)

// RequireAuth verifies the bearer token and loads the caller's user row.
// Role and parent linkage always come from the store, so a stale token
// cannot carry a revoked role forward.
func RequireAuth(tokens *services.TokenService, resolver *services.AccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.JSONMessage(c, http.StatusUnauthorized, "Missing or invalid authorization header")
			c.Abort()
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		uid, err := tokens.Verify(raw)
		if err != nil {
			utils.JSONMessage(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		principal, err := resolver.LoadPrincipal(uid)
		if err != nil {
			utils.JSONMessage(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}
