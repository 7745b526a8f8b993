package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Limiter        *RateLimiter
}

// NewRouter mounts every handler under /api/v1 behind CORS, rate limiting
// and token verification.
func NewRouter(cfg RouterConfig, bookings *BookingHandler, rooms *RoomHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))
	if cfg.Limiter != nil {
		router.Use(cfg.Limiter.Middleware())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1", AuthMiddleware(cfg.JWTSecret))
	bookings.Register(v1)
	rooms.Register(v1)
	return router
}
