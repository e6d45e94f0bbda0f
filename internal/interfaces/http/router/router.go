package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rently/backend/internal/infrastructure/auth"
	"github.com/rently/backend/internal/infrastructure/logger"
	"github.com/rently/backend/internal/interfaces/http/handler"
	"github.com/rently/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers wired into the route table
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Asset     *handler.AssetHandler
	Rental    *handler.RentalHandler
	Finance   *handler.FinanceHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// Config configures the HTTP router
type Config struct {
	JWTService     *auth.JWTService
	Logger         *zap.Logger
	AllowedOrigins []string
	// RateLimit is requests per second per client IP; zero disables limiting
	RateLimit      float64
	RateLimitBurst int
	// MaxBodyBytes caps request body size; zero uses a 1 MiB default
	MaxBodyBytes int64
}

// publicPaths bypass authentication
var publicPaths = []string{
	"/health",
	"/api/v1/auth/register",
	"/api/v1/auth/login",
	"/api/v1/auth/refresh",
}

// New builds the gin engine with the full middleware stack and route table
func New(cfg Config, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = cfg.AllowedOrigins
	}
	engine.Use(middleware.CORS(corsConfig))

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	engine.Use(middleware.BodyLimit(maxBody))

	if cfg.RateLimit > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit)
		}
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, burst)))
	}

	engine.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService: cfg.JWTService,
		SkipPaths:  publicPaths,
		Logger:     cfg.Logger,
	}))

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	registerRoutes(api, h)

	return engine
}

func registerRoutes(api *gin.RouterGroup, h Handlers) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.GET("/me", h.Auth.Me)
		authGroup.PUT("/password", h.Auth.ChangePassword)
	}

	assets := api.Group("/assets")
	{
		assets.GET("", h.Asset.List)
		assets.GET("/:id", h.Asset.Get)
		assets.GET("/:id/status-history", h.Asset.ListStatusHistory)
	}

	rentals := api.Group("/rentals")
	{
		rentals.GET("", h.Rental.List)
		rentals.POST("", h.Rental.Create)
		rentals.GET("/:id", h.Rental.Get)
		rentals.POST("/:id/cancel", h.Rental.Cancel)
		rentals.GET("/:id/history", h.Rental.ListHistory)
	}

	users := api.Group("/users")
	{
		users.GET("/:user_id/summaries", h.Finance.ListSummaries)
		users.GET("/:user_id/summaries/:period", h.Finance.GetMonthlySummary)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", h.User.List)
		admin.GET("/users/:user_id", h.User.Get)
		admin.PUT("/users/:user_id", h.User.Update)
		admin.DELETE("/users/:user_id", h.User.Delete)
		admin.POST("/users/:user_id/admin", h.User.GrantAdmin)
		admin.DELETE("/users/:user_id/admin", h.User.RevokeAdmin)

		admin.POST("/assets", h.Asset.Create)
		admin.PUT("/assets/:id", h.Asset.Update)
		admin.DELETE("/assets/:id", h.Asset.Delete)
		admin.POST("/assets/:id/maintenance", h.Asset.StartMaintenance)
		admin.DELETE("/assets/:id/maintenance", h.Asset.CompleteMaintenance)

		admin.POST("/users/:user_id/summaries/:period/recompute", h.Finance.Recompute)

		admin.GET("/dashboard", h.Dashboard.Snapshot)
	}
}
