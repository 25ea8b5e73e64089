package models

import "time"

// StaffPerformanceReport combines workload, teaching and efficiency analytics
// with rule-derived narrative lists. Built on demand, never mutated.
type StaffPerformanceReport struct {
	StaffID          string            `json:"staff_id"`
	StaffName        string            `json:"staff_name"`
	Department       string            `json:"department"`
	Period           DateRange         `json:"period"`
	Workload         WorkloadAnalytics `json:"workload"`
	Teaching         TeachingAnalytics `json:"teaching"`
	Efficiency       EfficiencyMetrics `json:"efficiency"`
	Strengths        []string          `json:"strengths"`
	ImprovementAreas []string          `json:"improvement_areas"`
	Recommendations  []string          `json:"recommendations"`
	GeneratedAt      time.Time         `json:"generated_at"`
}
