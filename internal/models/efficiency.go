package models

// ComparisonMetrics are externally computed benchmark values used to place a
// staff member's efficiency against a peer group.
type ComparisonMetrics struct {
	AverageProcessingHours float64 `db:"avg_processing_hours" json:"average_processing_hours"`
	ApprovalRate           float64 `db:"approval_rate" json:"approval_rate"`
	ResponseTimeHours      float64 `db:"response_time_hours" json:"response_time_hours"`
	PercentileRank         float64 `db:"percentile_rank" json:"percentile_rank"`
}

// EfficiencyMetrics are OD-processing KPIs for one staff member over one
// date range. All-zero when no requests matched — that is a valid result,
// not an error.
type EfficiencyMetrics struct {
	StaffID                string            `json:"staff_id"`
	Period                 DateRange         `json:"period"`
	AverageProcessingHours float64           `json:"average_processing_hours"`
	ODApprovalRate         float64           `json:"od_approval_rate"`
	ResponseTimeHours      float64           `json:"response_time_hours"`
	TotalProcessed         int               `json:"total_processed"`
	StatusBreakdown        map[ODStatus]int  `json:"status_breakdown"`
	SatisfactionScore      float64           `json:"satisfaction_score"`
	DepartmentComparison   ComparisonMetrics `json:"department_comparison"`
	InstitutionComparison  ComparisonMetrics `json:"institution_comparison"`
}
