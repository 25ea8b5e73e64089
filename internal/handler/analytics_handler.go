package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/odtrack/analytics-api/internal/dto"
	"github.com/odtrack/analytics-api/internal/models"
	"github.com/odtrack/analytics-api/internal/service"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
	"github.com/odtrack/analytics-api/pkg/response"
)

// AnalyticsHandler exposes the workload, efficiency and performance
// endpoints.
type AnalyticsHandler struct {
	workload    *service.WorkloadService
	efficiency  *service.EfficiencyService
	performance *service.PerformanceService
	teaching    *service.TeachingService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(workload *service.WorkloadService, efficiency *service.EfficiencyService, performance *service.PerformanceService, teaching *service.TeachingService) *AnalyticsHandler {
	return &AnalyticsHandler{
		workload:    workload,
		efficiency:  efficiency,
		performance: performance,
		teaching:    teaching,
	}
}

// Workload godoc
// @Summary Workload analytics for a staff member
// @Tags Analytics
// @Produce json
// @Param staffId path string true "Staff ID"
// @Param start query string true "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string true "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/workload/{staffId} [get]
func (h *AnalyticsHandler) Workload(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	analytics, err := h.workload.GetWorkloadAnalytics(c.Request.Context(), c.Param("staffId"), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics)
}

// Efficiency godoc
// @Summary Efficiency metrics for a staff member
// @Tags Analytics
// @Produce json
// @Param staffId path string true "Staff ID"
// @Param start query string true "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string true "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /analytics/efficiency/{staffId} [get]
func (h *AnalyticsHandler) Efficiency(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}
	metrics, err := h.efficiency.GetEfficiencyMetrics(c.Request.Context(), c.Param("staffId"), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics)
}

// Teaching godoc
// @Summary Teaching allocation analytics for a staff member
// @Tags Analytics
// @Produce json
// @Param staffId path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/teaching/{staffId} [get]
func (h *AnalyticsHandler) Teaching(c *gin.Context) {
	analytics, err := h.teaching.GetTeachingAnalytics(c.Request.Context(), c.Param("staffId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics)
}

// PerformanceReport godoc
// @Summary Narrative performance report for a staff member
// @Tags Analytics
// @Produce json
// @Param staffId path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/performance-report/{staffId} [get]
func (h *AnalyticsHandler) PerformanceReport(c *gin.Context) {
	report, err := h.performance.GeneratePerformanceReport(c.Request.Context(), c.Param("staffId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Dashboard godoc
// @Summary Request volume statistics for the staff dashboard
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.efficiency.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// bindPeriod parses the shared period query parameters, writing the error
// response itself on failure.
func bindPeriod(c *gin.Context) (period models.DateRange, ok bool) {
	var query dto.DateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start and end required"))
		return period, false
	}
	period, err := query.Range()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dates must be RFC3339 or YYYY-MM-DD"))
		return period, false
	}
	if !period.End.After(period.Start) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end must be after start"))
		return period, false
	}
	return period, true
}
