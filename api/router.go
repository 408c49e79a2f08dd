package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/linlinbupt123-crypto/lumos_service/service"
)

type Deps struct {
	Accounts     *service.AccountService
	Positions    *service.PositionService
	Waitlist     *service.WaitlistService
	Verifier     TokenVerifier
	Ping         func(ctx context.Context) error // nil when the store has nothing to ping
	AllowOrigins []string
	Log          *zap.Logger
}

// NewRouter exits the process if the custom binding tags cannot be
// registered; create requests cannot bind without them.
func NewRouter(d Deps) *gin.Engine {
	if err := RegisterValidators(); err != nil {
		d.Log.Fatal("binding validators", zap.Error(err))
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), RequestID(), AccessLog(d.Log), Metrics())
	r.Use(cors.New(corsConfig(d.AllowOrigins)))
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	r.GET("/healthz", healthz(d.Ping, d.Log))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accounts := NewAccountHandler(d.Accounts, d.Log)
	positions := NewPositionHandler(d.Positions, d.Log)
	waitlist := NewWaitlistHandler(d.Waitlist, d.Log)

	protected := r.Group("/api")
	protected.Use(AuthMiddleware(d.Verifier, d.Log))

	protected.GET("/users", accounts.List)
	protected.POST("/users", accounts.Create)
	protected.PUT("/users", accounts.Update)
	protected.DELETE("/users", accounts.Delete)

	protected.GET("/positions", positions.List)
	protected.POST("/positions", positions.Create)
	protected.PUT("/positions", positions.Update)
	protected.DELETE("/positions", positions.Delete)

	protected.POST("/waitlist", waitlist.Join)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func healthz(ping func(ctx context.Context) error, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
