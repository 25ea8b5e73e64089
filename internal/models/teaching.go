package models

// SubjectAllocation is the per-subject teaching load slice.
type SubjectAllocation struct {
	SubjectCode    string  `json:"subject_code"`
	PeriodsPerWeek int     `json:"periods_per_week"`
	LoadShare      float64 `json:"load_share"`
}

// ClassAllocation is the per-class teaching assignment with real enrollment.
type ClassAllocation struct {
	ClassName    string `json:"class_name"`
	Grade        string `json:"grade"`
	StudentCount int    `json:"student_count"`
}

// TeachingEfficiencyScore summarises how the allocated load is spread.
type TeachingEfficiencyScore struct {
	UtilizationRate   float64 `json:"utilization_rate"`
	StudentsPerPeriod float64 `json:"students_per_period"`
	SubjectDiversity  float64 `json:"subject_diversity"`
	GradeSpread       int     `json:"grade_spread"`
}

// TeachingAnalytics is the derived teaching-load breakdown for one staff
// member in their current semester.
type TeachingAnalytics struct {
	StaffID           string                  `json:"staff_id"`
	Semester          string                  `json:"semester"`
	TotalPeriods      int                     `json:"total_periods"`
	TotalClasses      int                     `json:"total_classes"`
	TotalStudents     int                     `json:"total_students"`
	Subjects          []SubjectAllocation     `json:"subjects"`
	Classes           []ClassAllocation       `json:"classes"`
	GradeDistribution map[string]int          `json:"grade_distribution"`
	Efficiency        TeachingEfficiencyScore `json:"efficiency"`
}
