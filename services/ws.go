package services

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleWebSocket serves /ws?role=cashier|display|admin.
func HandleWebSocket(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := ParseRole(c.DefaultQuery("role", string(RoleDisplay)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		if err := h.Serve(c.Writer, c.Request, role); err != nil {
			h.log.Infow("websocket upgrade failed", "role", role, "error", err)
			return
		}
	}
}
