package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/odtrack/analytics-api/internal/dto"
	"github.com/odtrack/analytics-api/internal/service"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
	"github.com/odtrack/analytics-api/pkg/response"
)

// HistoryHandler exposes export history endpoints.
type HistoryHandler struct {
	history *service.HistoryService
}

// NewHistoryHandler constructs handler.
func NewHistoryHandler(history *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List godoc
// @Summary Export history, newest first
// @Tags Reports
// @Produce json
// @Param format query string false "Filter by format" Enums(pdf, csv, excel)
// @Param startDate query string false "Created at or after"
// @Param endDate query string false "Created at or before"
// @Param successOnly query bool false "Only successful exports"
// @Param q query string false "Substring match on file name"
// @Success 200 {object} response.Envelope
// @Router /reports/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query dto.HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	filter, err := query.Filter()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dates must be RFC3339 or YYYY-MM-DD"))
		return
	}
	results, err := h.history.GetExportHistory(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, map[string]interface{}{"count": len(results)})
}

// Statistics godoc
// @Summary Aggregate export statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/statistics [get]
func (h *HistoryHandler) Statistics(c *gin.Context) {
	stats, err := h.history.GetExportStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Delete godoc
// @Summary Delete a history entry and its file
// @Tags Reports
// @Produce json
// @Param exportId path string true "Export ID"
// @Success 204
// @Router /reports/history/{exportId} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	if err := h.history.DeleteExport(c.Request.Context(), c.Param("exportId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
