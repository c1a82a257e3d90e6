package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/macrolog/macrolog/backend/config"
	"github.com/macrolog/macrolog/backend/internal/database"
	"github.com/macrolog/macrolog/backend/internal/middleware"
	"github.com/macrolog/macrolog/backend/internal/router"
	"github.com/macrolog/macrolog/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New wires services and routes. redisClient may be nil, which disables the
// report cache and login rate limiting.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := database.NewGormStore(db)

	var (
		cache   service.ReportCache
		limiter *middleware.RateLimiter
	)
	if redisClient != nil {
		cache = database.NewRedisReportCache(redisClient, cfg.ReportCacheTTL)
		limiter = middleware.NewLoginRateLimiter(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow)
	} else {
		log.Printf("Redis not configured: report cache and login rate limiting disabled")
	}

	svc := router.Services{
		Auth:    service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Product: service.NewProductService(db, cache),
		Meal:    service.NewMealService(db, store, cache),
		Goal:    service.NewGoalService(db, store, cache),
		Report:  service.NewReportService(store, cache),
	}

	engine := router.SetupRouter(svc, router.Options{
		CORSOrigins:  cfg.CORSOrigins,
		LoginLimiter: limiter,
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the routes, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
