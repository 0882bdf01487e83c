package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bellapacxx/bingo-hall/config"
	"github.com/bellapacxx/bingo-hall/controllers"
	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/middleware"
	"github.com/bellapacxx/bingo-hall/routes"
	"github.com/bellapacxx/bingo-hall/services"
	"github.com/bellapacxx/bingo-hall/utils/logger"
)

const shutdownTimeout = 10 * time.Second

// setupStore connects to postgres when configured, otherwise keeps
// state in memory.
func setupStore(cfg *config.Config) game.Store {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping rounds in memory")
		return game.NewMemoryStore()
	}
	db, err := config.SetupDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	return services.NewGormStore(db, logger.Named("store"))
}

// setupPublisher fans events out to websocket observers and, when
// configured, to Redis.
func setupPublisher(cfg *config.Config, hub *services.Hub) (game.Publisher, func()) {
	if cfg.RedisURL == "" {
		return hub, func() {}
	}
	rp, err := services.NewRedisPublisher(cfg.RedisURL, cfg.RedisChannel)
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rp.Ping(ctx); err != nil {
		logger.Errorf("Redis unreachable, events are mirrored once it recovers: %v", err)
	}
	return services.Fanout{hub, rp}, func() { _ = rp.Close() }
}

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg *config.Config, gc *controllers.GameController, hub *services.Hub, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RoleHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	routes.SetupRoutes(r, gc, hub, limiter)
	return r
}

func main() {
	defer logger.Sync()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("[FATAL] Invalid configuration: %v", err)
	}

	store := setupStore(cfg)
	hub := services.NewHub(cfg.AllowedOrigins, logger.Named("hub"))
	publisher, closePublisher := setupPublisher(cfg, hub)
	defer closePublisher()

	manager := game.NewManager(game.Config{
		Rules:     cfg.Rules,
		Store:     store,
		Presence:  hub,
		Publisher: publisher,
		Logger:    logger.Named("game"),
	})
	hub.Bind(manager)
	if err := manager.Init(context.Background()); err != nil {
		logger.Fatalf("[FATAL] Failed to initialize round engine: %v", err)
	}

	stop := make(chan struct{})
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, logger.Named("ratelimit"))
	limiter.StartCleanup(time.Minute, stop)

	router := setupRouter(cfg, controllers.NewGameController(manager), hub, limiter)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Bingo hall server starting on port %s (round %s)", cfg.Port, manager.CurrentRound())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("[FATAL] Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	close(stop)
	manager.Close()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
}
