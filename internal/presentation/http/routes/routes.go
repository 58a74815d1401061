// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartengage/smartengage-go/internal/application/container"
	"github.com/smartengage/smartengage-go/internal/presentation/http/handlers"
	"github.com/smartengage/smartengage-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	metrics := middleware.NewMetrics()
	r.Use(middleware.CORSMiddleware())
	r.Use(metrics.MetricsMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	visitHandlers := handlers.NewVisitHandlers(container.SessionService, container.Logger, container.PerfTracker)
	popupHandlers := handlers.NewPopupHandlers(container.PopupService, container.Logger, container.PerfTracker)
	eligibilityHandlers := handlers.NewEligibilityHandlers(container.EligibilityService, container.Logger, container.PerfTracker)
	triggerHandlers := handlers.NewTriggerHandlers(container.TriggerService, container.Logger, container.PerfTracker)
	eventHandlers := handlers.NewEventHandlers(container.EventService, container.Logger, container.PerfTracker)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.AnalyticsService, container.Logger, container.PerfTracker)
	dbHandlers := handlers.NewDBHandlers(container.DB, container.StateManager, container.Logger, container.PerfTracker)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RequestContextMiddleware())
	{
		// Visitor-facing endpoints
		api.POST("/visit", visitHandlers.PostVisit)
		api.POST("/eligibility", eligibilityHandlers.PostEligibility)
		api.POST("/triggers/signal", triggerHandlers.PostSignal)
		api.POST("/events", eventHandlers.PostEvent)
		api.GET("/popups/enabled", popupHandlers.GetEnabled)

		// Authentication
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.GET("/status", authHandlers.GetAuthStatus)
		}

		// Database status
		api.GET("/db/status", dbHandlers.GetDatabaseStatus)

		// Popup management (admin only)
		popups := api.Group("/popups")
		popups.Use(authHandlers.AdminMiddleware())
		{
			popups.GET("", popupHandlers.GetAll)
			popups.POST("", popupHandlers.Create)
			popups.GET("/:id", popupHandlers.GetByID)
			popups.PUT("/:id", popupHandlers.Update)
			popups.DELETE("/:id", popupHandlers.Delete)
		}

		// Analytics (admin only)
		analytics := api.Group("/analytics")
		analytics.Use(authHandlers.AdminMiddleware())
		{
			analytics.GET("/report", analyticsHandlers.GetReport)
			analytics.GET("/summary", analyticsHandlers.GetSummary)
			analytics.DELETE("", analyticsHandlers.DeleteAnalytics)
		}
	}

	return r
}
