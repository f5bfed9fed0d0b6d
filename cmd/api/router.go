package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/brlucas/fluxo/pkg/middleware"
	"github.com/brlucas/fluxo/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Tracing("fluxo/api"))
	router.Use(middleware.Logging(deps.Logger))
	if deps.Config.Observability.MetricsEnabled {
		router.Use(observability.Metrics())
	}
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		router.Use(middleware.RateLimit(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		))
	}

	registerUtilityRoutes(router, deps)

	router.POST("/auth/register", deps.AuthHandler.Register)
	router.POST("/auth/login", deps.AuthHandler.Login)

	authed := router.Group("/api")
	authed.Use(middleware.Auth(deps.TokenManager))
	{
		authed.POST("/profiles", deps.ProfileHandler.Create)
		authed.GET("/profiles", deps.ProfileHandler.List)
		authed.GET("/profiles/:id", deps.ProfileHandler.Get)
		authed.PUT("/profiles/:id", deps.ProfileHandler.Update)
		authed.DELETE("/profiles/:id", deps.ProfileHandler.Delete)
		authed.GET("/profiles/:id/summary", deps.TransactionHandler.Summary)

		authed.POST("/transactions", deps.TransactionHandler.Create)
		authed.GET("/transactions", deps.TransactionHandler.List)
		authed.GET("/transactions/:id", deps.TransactionHandler.Get)
		authed.PUT("/transactions/:id", deps.TransactionHandler.Update)
		authed.DELETE("/transactions/:id", deps.TransactionHandler.Delete)

		authed.POST("/import/csv", deps.ImportHandler.ImportCSV)
		authed.GET("/import/jobs/:id", deps.ImportHandler.GetJob)
		authed.GET("/export/csv", deps.ImportHandler.ExportCSV)

		authed.POST("/uploads", deps.ExtractionHandler.Upload)
		authed.GET("/uploads", deps.ExtractionHandler.List)
		authed.POST("/extract", deps.ExtractionHandler.Extract)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // narrow to the frontend origin in prod
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           7200,
	})

	return corsHandler.Handler(router)
}

// registerUtilityRoutes registers health and metrics routes
func registerUtilityRoutes(router *gin.Engine, deps *Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		if err := deps.DB.Health(c.Request.Context()); err != nil {
			deps.Logger.Error("readiness check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Config.Observability.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
