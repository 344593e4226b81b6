// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/tractstack-seo/internal/application/container"
	"github.com/AtRiskMedia/tractstack-seo/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/tractstack-seo/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/tractstack-seo/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(container.Logger, container.PerfTracker))
	r.Use(middleware.CORSMiddleware(config.CORSOrigins))

	// Initialize handlers
	seoHandlers := handlers.NewSEOHandlers(container.InsightsService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	systemHandlers := handlers.NewSystemHandlers(container.ScoreStore, container.ReportStore, container.CacheMonitor, container.Logger, container.PerfTracker)

	r.GET("/health", systemHandlers.GetHealth)

	api := r.Group("/api/v1/seo")
	{
		api.POST("/auth", authHandlers.PostAuth)

		// Consumer endpoints used by the content generator
		api.GET("/success", seoHandlers.GetSuccessSet)
		api.GET("/patterns/structure", seoHandlers.GetStructuralPattern)
		api.GET("/patterns/success", seoHandlers.GetSuccessPattern)
		api.GET("/patterns/style", seoHandlers.GetStyleAnalysis)
		api.GET("/prompts/style", seoHandlers.GetStylePrompt)
		api.GET("/prompts/outline", seoHandlers.GetOutlinePrompt)
		api.GET("/prompts/queries", seoHandlers.GetQueriesPrompt)
		api.GET("/samples", seoHandlers.GetStyleSamples)
		api.GET("/queries", seoHandlers.GetRelatedQueries)
		api.GET("/queries/optimal", seoHandlers.GetOptimalQueries)
		api.GET("/queries/category/:category", seoHandlers.GetCategoryQueries)

		// Dashboard endpoints
		admin := api.Group("")
		admin.Use(middleware.AdminAuth(container.AuthService))
		{
			admin.GET("/summary", seoHandlers.GetSummary)
			admin.GET("/scores", seoHandlers.GetScores)
			admin.POST("/scores/refresh", seoHandlers.PostRefresh)
			admin.GET("/admin/performance", systemHandlers.GetPerformance)
			admin.GET("/admin/logs/levels", systemHandlers.GetLogLevels)
			admin.POST("/admin/logs/levels", systemHandlers.PostLogLevel)
		}
	}

	return r
}
