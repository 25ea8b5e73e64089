package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odtrack/analytics-api/internal/middleware"
	"github.com/odtrack/analytics-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Analytics *AnalyticsHandler
	Reports   *ReportHandler
	History   *HistoryHandler
	Progress  *ProgressHandler
}

// Register mounts all API routes under the given prefix. Analytics and
// report routes require authentication with a staff-grade role.
func Register(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(auth), middleware.RequireAnalyticsAccess())

	analytics := secured.Group("/analytics")
	analytics.GET("/workload/:staffId", h.Analytics.Workload)
	analytics.GET("/efficiency/:staffId", h.Analytics.Efficiency)
	analytics.GET("/teaching/:staffId", h.Analytics.Teaching)
	analytics.GET("/performance-report/:staffId", h.Analytics.PerformanceReport)
	analytics.GET("/dashboard", h.Analytics.Dashboard)

	reports := secured.Group("/reports")
	reports.POST("/student/:studentId", h.Reports.ExportStudent)
	reports.POST("/staff/:staffId", h.Reports.ExportStaff)
	reports.POST("/analytics", h.Reports.ExportAnalytics)
	reports.POST("/bulk", h.Reports.ExportBulk)
	reports.POST("/:exportId/cancel", h.Reports.Cancel)
	reports.GET("/history", h.History.List)
	reports.GET("/statistics", h.History.Statistics)
	reports.DELETE("/history/:exportId", h.History.Delete)

	// Browsers cannot set Authorization headers on websocket upgrades, so
	// the progress stream sits outside the JWT group. Export ids are
	// unguessable UUIDs.
	api.GET("/reports/progress/:exportId", h.Progress.Stream)
}
