package router

import (
	"github.com/gin-gonic/gin"

	"github.com/macrolog/macrolog/backend/internal/api"
	"github.com/macrolog/macrolog/backend/internal/middleware"
	"github.com/macrolog/macrolog/backend/internal/service"
)

// Services holds everything the routes call into
type Services struct {
	Auth    service.IAuthService
	Product service.IProductService
	Meal    service.IMealService
	Goal    service.IGoalService
	Report  service.IReportService
}

// Options tune the middleware stack. A nil LoginLimiter disables login
// rate limiting.
type Options struct {
	CORSOrigins  []string
	LoginLimiter *middleware.RateLimiter
	Health       api.Pinger
}

// SetupRouter configures the application routes
func SetupRouter(svc Services, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.CORSOrigins))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.GET("/health", api.HealthCheck(opts.Health))

	var loginLimiter gin.HandlerFunc
	if opts.LoginLimiter != nil {
		loginLimiter = opts.LoginLimiter.Middleware()
	}
	authHandler := api.NewAuthHandler(svc.Auth, loginLimiter)
	authHandler.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	{
		authHandler.RegisterProtectedRoutes(protected)
		api.NewProductHandler(svc.Product).RegisterRoutes(protected)
		api.NewMealHandler(svc.Meal).RegisterRoutes(protected)
		api.NewGoalHandler(svc.Goal).RegisterRoutes(protected)
		api.NewReportHandler(svc.Report).RegisterRoutes(protected)
	}

	return router
}
