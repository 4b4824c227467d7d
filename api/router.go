package api

import (
	"net/http"

	"scanorder/api/health"
	"scanorder/api/middleware"
	"scanorder/api/response"
	"scanorder/api/session"
	"scanorder/config"
	"scanorder/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Router route configuration
type Router struct {
	engine            *gin.Engine
	config            *config.Config
	healthController  *health.Controller
	sessionController *session.Controller
}

func NewRouter(
	cfg *config.Config,
	healthController *health.Controller,
	sessionController *session.Controller,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters: the request id must exist before anything logs
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit))

	return &Router{
		engine:            engine,
		config:            cfg,
		healthController:  healthController,
		sessionController: sessionController,
	}
}

// SetupRoutes registers every route under /api/v1
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.sessionController.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":     r.config.App.Name,
			"version":  r.config.App.Version,
			"env":      r.config.App.Env,
			"health":   "/api/v1/health",
			"sessions": "/api/v1/sessions/:sessionId",
		})
	})

	r.engine.NoRoute(func(c *gin.Context) {
		response.HandleAppError(c, errors.NotFound("route not found"))
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
