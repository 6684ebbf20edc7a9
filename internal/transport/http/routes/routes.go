package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/infra/config"
	"github.com/hajuenter/usaha-backend/internal/transport/http/handlers"
	"github.com/hajuenter/usaha-backend/internal/transport/http/middleware"
	"github.com/hajuenter/usaha-backend/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Recovery     *usecase.RecoveryService
	Products     *usecase.ProductService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Cache)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, handlers.MessageResponse{Message: "API is working"})
	})
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")

		registrationHandler := handlers.NewRegistrationHandler(deps.Services.Registration, deps.Logger)
		authGroup.POST("/register", registrationHandler.Register)

		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Logger)
		loginHandlers := append(buildLoginMiddlewares(deps), authHandler.Login)
		authGroup.POST("/login", loginHandlers...)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.Recovery, deps.Logger)
		forgotHandlers := append(buildForgotPasswordMiddlewares(deps), passwordHandler.ForgotPassword)
		authGroup.POST("/lupa-password", forgotHandlers...)
		authGroup.POST("/verif-otp", passwordHandler.VerifyOTP)
		authGroup.POST("/reset-password", passwordHandler.ResetPassword)

		productHandler := handlers.NewProductHandler(deps.Services.Products, deps.Logger)
		productGroup := api.Group("/product")
		productGroup.Use(authMiddleware)
		productGroup.POST("/add-product", productHandler.Add)
		productGroup.PUT("/edit-product/:id", productHandler.Edit)
		productGroup.GET("/get-product/:id", productHandler.Get)
		productGroup.GET("/get-all-product", productHandler.GetAll)
		productGroup.DELETE("/delete-product/:id", productHandler.Delete)
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}

func buildForgotPasswordMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.ForgotPasswordMaxHits
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "forgot_password_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
