package models

import "time"

// ExportFormat enumerates requestable output encodings.
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// ExportType enumerates report categories the pipeline can produce.
type ExportType string

const (
	ExportTypeStudent   ExportType = "student"
	ExportTypeStaff     ExportType = "staff"
	ExportTypeAnalytics ExportType = "analytics"
	ExportTypeBulk      ExportType = "bulk"
)

// ExportResult records the outcome of one export attempt. Every attempt —
// success, failure or cancellation — produces exactly one history entry.
type ExportResult struct {
	ID           string       `db:"id" json:"id"`
	Type         ExportType   `db:"type" json:"type"`
	FileName     string       `db:"file_name" json:"file_name"`
	FilePath     string       `db:"file_path" json:"file_path"`
	Format       ExportFormat `db:"format" json:"format"`
	FileSize     int64        `db:"file_size" json:"file_size"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	Success      bool         `db:"success" json:"success"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
}

// ExportProgress is one update in an export's progress stream. Terminal
// state is Progress == 1.0.
type ExportProgress struct {
	ExportID       string  `json:"export_id"`
	Progress       float64 `json:"progress"`
	CurrentStep    string  `json:"current_step"`
	Message        string  `json:"message,omitempty"`
	TotalItems     int     `json:"total_items,omitempty"`
	ProcessedItems int     `json:"processed_items,omitempty"`
	Cancellable    bool    `json:"cancellable"`
}

// ExportStatistics are aggregate counters computed on demand over export
// history.
type ExportStatistics struct {
	TotalExports      int                  `json:"total_exports"`
	SuccessfulExports int                  `json:"successful_exports"`
	FailedExports     int                  `json:"failed_exports"`
	ExportsByFormat   map[ExportFormat]int `json:"exports_by_format"`
	AverageFileSize   float64              `json:"average_file_size"`
	LastExportAt      *time.Time           `json:"last_export_at,omitempty"`
	ExportsThisMonth  int                  `json:"exports_this_month"`
	ExportsThisWeek   int                  `json:"exports_this_week"`
}

// ExportHistoryFilter narrows history retrieval.
type ExportHistoryFilter struct {
	Format      *ExportFormat
	StartDate   *time.Time
	EndDate     *time.Time
	SuccessOnly bool
	Query       string
}

// ExportOptions carry the caller's rendering choices for one export.
type ExportOptions struct {
	Format          ExportFormat   `json:"format"`
	DateRange       DateRange      `json:"date_range"`
	IncludeCharts   bool           `json:"include_charts"`
	IncludeMetadata bool           `json:"include_metadata"`
	CustomTitle     string         `json:"custom_title,omitempty"`
	Filter          *RequestFilter `json:"filter,omitempty"`
}
