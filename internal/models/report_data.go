package models

import "time"

// RequestFilter narrows the OD request set included in a report. A zero
// filter matches everything.
type RequestFilter struct {
	Statuses       []ODStatus `json:"statuses,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	ReasonContains string     `json:"reason_contains,omitempty"`
	Departments    []string   `json:"departments,omitempty"`
}

// Empty reports whether the filter imposes no constraints.
func (f RequestFilter) Empty() bool {
	return len(f.Statuses) == 0 && f.StartDate == nil && f.EndDate == nil &&
		f.ReasonContains == "" && len(f.Departments) == 0
}

// ReasonCount pairs a request reason with its occurrence count.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// RequestSummary holds derived counts for a request set. Recomputed after
// every filter application — never reused across filters.
type RequestSummary struct {
	TotalRequests   int           `json:"total_requests"`
	Approved        int           `json:"approved"`
	Rejected        int           `json:"rejected"`
	Pending         int           `json:"pending"`
	FrequentReasons []ReasonCount `json:"frequent_reasons"`
}

// StudentReportData is the typed payload behind a student report export.
type StudentReportData struct {
	StudentID      string         `json:"student_id"`
	StudentName    string         `json:"student_name"`
	RegisterNumber string         `json:"register_number"`
	Period         DateRange      `json:"period"`
	Requests       []ODRequest    `json:"requests"`
	Summary        RequestSummary `json:"summary"`
}

// StaffReportData is the typed payload behind a staff report export.
type StaffReportData struct {
	StaffID    string             `json:"staff_id"`
	StaffName  string             `json:"staff_name"`
	Department string             `json:"department"`
	Period     DateRange          `json:"period"`
	Processed  []ODRequest        `json:"processed"`
	Summary    RequestSummary     `json:"summary"`
	Efficiency *EfficiencyMetrics `json:"efficiency,omitempty"`
}

// AnalyticsReportData is the typed payload behind an analytics report
// export. Supplied by the caller rather than queried.
type AnalyticsReportData struct {
	Title              string             `json:"title"`
	Period             DateRange          `json:"period"`
	TotalRequests      int                `json:"total_requests"`
	StatusDistribution map[ODStatus]int   `json:"status_distribution"`
	TopStudents        []StudentRequestCount `json:"top_students,omitempty"`
	Workload           *WorkloadAnalytics `json:"workload,omitempty"`
	Efficiency         *EfficiencyMetrics `json:"efficiency,omitempty"`
}

// BulkReportData is the typed payload behind a bulk request export.
type BulkReportData struct {
	RequestIDs []string       `json:"request_ids"`
	Requests   []ODRequest    `json:"requests"`
	Summary    RequestSummary `json:"summary"`
}
