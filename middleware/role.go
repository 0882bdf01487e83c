package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-hall/services"
)

// RoleHeader carries the caller's role on HTTP requests. The role query
// parameter is accepted as well, as on /ws.
const RoleHeader = "X-Role"

// RequireRole rejects callers whose role may not perform action, using
// the same permissions as websocket commands.
func RequireRole(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(RoleHeader)
		if raw == "" {
			raw = c.Query("role")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "role required",
			})
			return
		}

		role, err := services.ParseRole(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": err.Error(),
			})
			return
		}
		if !role.Allows(action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": fmt.Sprintf("role %s may not %s", role, action),
			})
			return
		}

		c.Set("role", role)
		c.Next()
	}
}
