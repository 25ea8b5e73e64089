package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/odtrack/analytics-api/internal/dto"
	"github.com/odtrack/analytics-api/internal/service"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
	"github.com/odtrack/analytics-api/pkg/response"
)

// ReportHandler exposes the export endpoints. Exports run asynchronously;
// every endpoint answers 202 with the queued export shell.
type ReportHandler struct {
	exports *service.ExportService
}

// NewReportHandler constructs handler.
func NewReportHandler(exports *service.ExportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// ExportStudent godoc
// @Summary Queue a student OD report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param payload body dto.ExportOptionsRequest true "Export options"
// @Success 202 {object} response.Envelope
// @Router /reports/student/{studentId} [post]
func (h *ReportHandler) ExportStudent(c *gin.Context) {
	var req dto.ExportOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	result, err := h.exports.ExportStudentReport(c.Request.Context(), c.Param("studentId"), req.Options())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.ExportQueuedResponse{Export: *result})
}

// ExportStaff godoc
// @Summary Queue a staff OD report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param staffId path string true "Staff ID"
// @Param payload body dto.ExportOptionsRequest true "Export options"
// @Success 202 {object} response.Envelope
// @Router /reports/staff/{staffId} [post]
func (h *ReportHandler) ExportStaff(c *gin.Context) {
	var req dto.ExportOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	result, err := h.exports.ExportStaffReport(c.Request.Context(), c.Param("staffId"), req.Options())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.ExportQueuedResponse{Export: *result})
}

// ExportAnalytics godoc
// @Summary Queue an analytics report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.AnalyticsExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /reports/analytics [post]
func (h *ReportHandler) ExportAnalytics(c *gin.Context) {
	var req dto.AnalyticsExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	data := req.Data
	result, err := h.exports.ExportAnalyticsReport(c.Request.Context(), &data, req.Options())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.ExportQueuedResponse{Export: *result})
}

// ExportBulk godoc
// @Summary Queue an export of explicitly named requests
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.BulkExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /reports/bulk [post]
func (h *ReportHandler) ExportBulk(c *gin.Context) {
	var req dto.BulkExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	result, err := h.exports.ExportBulkRequests(c.Request.Context(), req.RequestIDs, req.Options())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.ExportQueuedResponse{Export: *result})
}

// Cancel godoc
// @Summary Cancel a queued or running export
// @Tags Reports
// @Produce json
// @Param exportId path string true "Export ID"
// @Success 204
// @Router /reports/{exportId}/cancel [post]
func (h *ReportHandler) Cancel(c *gin.Context) {
	if err := h.exports.Cancel(c.Param("exportId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
