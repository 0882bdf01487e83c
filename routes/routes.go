package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-hall/controllers"
	"github.com/bellapacxx/bingo-hall/middleware"
	"github.com/bellapacxx/bingo-hall/services"
	"github.com/bellapacxx/bingo-hall/utils/metrics"
)

func SetupRoutes(r *gin.Engine, gc *controllers.GameController, hub *services.Hub, limiter *middleware.RateLimiter) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// WebSocket observer endpoint
	r.GET("/ws", services.HandleWebSocket(hub))

	api := r.Group("/api")

	// ----------------------
	// Read-only routes
	// ----------------------
	api.GET("/game/state", gc.State)
	api.GET("/game/history", gc.History)
	api.GET("/game/tickets", gc.ListTickets)

	// ----------------------
	// Mutating routes
	// ----------------------
	write := api.Group("")
	if limiter != nil {
		write.Use(limiter.Handler())
	}
	write.POST("/tickets", middleware.RequireRole("sell_ticket"), gc.SellTicket)
	write.POST("/game/play", middleware.RequireRole("play"), gc.Play)
	write.POST("/game/draw", middleware.RequireRole("draw"), gc.Draw)
	write.POST("/game/pause", middleware.RequireRole("pause"), gc.Pause)
	write.POST("/game/resume", middleware.RequireRole("resume"), gc.Resume)

	// admin only
	write.POST("/game/start", middleware.RequireRole("start"), gc.Start)
	write.POST("/game/reset", middleware.RequireRole("reset"), gc.Reset)
}
