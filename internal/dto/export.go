package dto

import (
	"time"

	"github.com/odtrack/analytics-api/internal/models"
)

// ExportOptionsRequest captures the rendering choices shared by all export
// endpoints.
type ExportOptionsRequest struct {
	Format          models.ExportFormat   `json:"format" binding:"required,oneof=pdf csv excel"`
	StartDate       time.Time             `json:"start_date" binding:"required"`
	EndDate         time.Time             `json:"end_date" binding:"required,gtfield=StartDate"`
	IncludeCharts   bool                  `json:"include_charts"`
	IncludeMetadata bool                  `json:"include_metadata"`
	CustomTitle     string                `json:"custom_title"`
	Filter          *models.RequestFilter `json:"filter"`
}

// Options converts the request into the service-level options value.
func (r ExportOptionsRequest) Options() models.ExportOptions {
	return models.ExportOptions{
		Format:          r.Format,
		DateRange:       models.DateRange{Start: r.StartDate.UTC(), End: r.EndDate.UTC()},
		IncludeCharts:   r.IncludeCharts,
		IncludeMetadata: r.IncludeMetadata,
		CustomTitle:     r.CustomTitle,
		Filter:          r.Filter,
	}
}

// AnalyticsExportRequest captures POST /reports/analytics payload. The
// analytics data is supplied by the caller rather than recomputed.
type AnalyticsExportRequest struct {
	Data models.AnalyticsReportData `json:"data" binding:"required"`
	ExportOptionsRequest
}

// BulkExportRequest captures POST /reports/bulk payload.
type BulkExportRequest struct {
	RequestIDs []string `json:"request_ids" binding:"required,min=1"`
	ExportOptionsRequest
}

// ExportQueuedResponse is returned after an export is accepted.
type ExportQueuedResponse struct {
	Export models.ExportResult `json:"export"`
}

// HistoryQuery captures GET /reports/history query parameters.
type HistoryQuery struct {
	Format      string `form:"format" binding:"omitempty,oneof=pdf csv excel"`
	StartDate   string `form:"startDate"`
	EndDate     string `form:"endDate"`
	SuccessOnly bool   `form:"successOnly"`
	Query       string `form:"q"`
}

// Filter converts the query into the repository filter.
func (q HistoryQuery) Filter() (models.ExportHistoryFilter, error) {
	filter := models.ExportHistoryFilter{
		SuccessOnly: q.SuccessOnly,
		Query:       q.Query,
	}
	if q.Format != "" {
		format := models.ExportFormat(q.Format)
		filter.Format = &format
	}
	if q.StartDate != "" {
		start, _, err := parseQueryDate(q.StartDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
	}
	if q.EndDate != "" {
		end, layout, err := parseQueryDate(q.EndDate)
		if err != nil {
			return filter, err
		}
		if layout == "2006-01-02" {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &end
	}
	return filter, nil
}
