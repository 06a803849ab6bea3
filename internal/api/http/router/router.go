package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dtroode/blog-server/internal/api/http/handler"
	"github.com/dtroode/blog-server/internal/api/http/middleware"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/model"
)

// Options carries the transport settings that are not services.
type Options struct {
	CORSAllowedOrigins []string
	Cookies            handler.CookieOptions
}

// Router builds the gin engine serving the API.
type Router struct {
	authService    handler.AuthService
	tokenService   middleware.TokenAuthenticator
	contextManager model.ContextManager
	metrics        *metrics.Metrics
	options        Options
	logger         *logger.Logger
}

func New(
	authService handler.AuthService,
	tokenService middleware.TokenAuthenticator,
	contextManager model.ContextManager,
	metrics *metrics.Metrics,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		metrics:        metrics,
		options:        options,
		logger:         logger,
	}
}

// Register wires middleware and routes and returns the engine.
func (r *Router) Register() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.NewRecovery(r.logger).Handle,
		middleware.NewLogging(r.logger).Handle,
		middleware.Metrics(r.metrics),
		cors.New(r.corsConfig()),
	)

	engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.metrics, r.logger)
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.options.Cookies, r.metrics, r.logger)

	v1 := engine.Group("/api/v1")
	v1.GET("/healthCheck", handler.HealthCheck)
	v1.POST("/refresh-token", authHandler.Refresh)

	users := v1.Group("/users")
	users.POST("", authHandler.Register)
	users.POST("/login", authHandler.Login)

	secured := users.Group("", authenticate.Handle)
	secured.POST("/logout", authHandler.Logout)
	secured.GET("/me", authHandler.Me)
	secured.POST("/send-verification-code", authHandler.SendVerificationCode)
	secured.POST("/check-verification-code", authHandler.CheckVerificationCode)
	secured.PATCH("/changePassword", authHandler.ChangePassword)
	secured.PATCH("/phoneNumber", authHandler.UpdatePhoneNumber)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "route not found"})
	})

	return engine
}

func (r *Router) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(r.options.CORSAllowedOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = r.options.CORSAllowedOrigins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return config
}
