package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType categorises how staff working hours are spent.
type ActivityType string

const (
	ActivityTeaching       ActivityType = "teaching"
	ActivityPreparation    ActivityType = "preparation"
	ActivityEvaluation     ActivityType = "evaluation"
	ActivityODProcessing   ActivityType = "od_processing"
	ActivityMeetings       ActivityType = "meetings"
	ActivityAdministration ActivityType = "administration"
	ActivityOther          ActivityType = "other"
)

// OrderedActivityTypes returns the activity types in their canonical display
// order. Map iteration alone would make report output non-deterministic.
func OrderedActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityTeaching,
		ActivityPreparation,
		ActivityEvaluation,
		ActivityODProcessing,
		ActivityMeetings,
		ActivityAdministration,
		ActivityOther,
	}
}

// TrendDirection classifies period-over-period workload movement.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// AlertSeverity ranks workload alerts.
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// DateRange is a half-open [Start, End) interval.
type DateRange struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

// Days returns the fractional day span of the range.
func (r DateRange) Days() float64 {
	return r.End.Sub(r.Start).Hours() / 24.0
}

// Weeks returns the fractional week span of the range.
func (r DateRange) Weeks() float64 {
	return r.Days() / 7.0
}

// Previous returns the immediately preceding window of equal length.
func (r DateRange) Previous() DateRange {
	span := r.End.Sub(r.Start)
	return DateRange{Start: r.Start.Add(-span), End: r.Start}
}

// Contains reports whether t falls inside the half-open interval.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// PeriodsMap stores subject code -> periods per week as JSONB.
type PeriodsMap map[string]int

// Value marshals the map for persistence.
func (m PeriodsMap) Value() (driver.Value, error) {
	if m == nil {
		m = PeriodsMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal periods map: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the map.
func (m *PeriodsMap) Scan(value interface{}) error {
	return scanJSON(value, m, "PeriodsMap")
}

// GradeClassMap stores grade -> class names as JSONB.
type GradeClassMap map[string][]string

func (m GradeClassMap) Value() (driver.Value, error) {
	if m == nil {
		m = GradeClassMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal grade class map: %w", err)
	}
	return data, nil
}

func (m *GradeClassMap) Scan(value interface{}) error {
	return scanJSON(value, m, "GradeClassMap")
}

// WeekSchedule stores day name -> ordered period numbers as JSONB.
type WeekSchedule map[string][]int

func (m WeekSchedule) Value() (driver.Value, error) {
	if m == nil {
		m = WeekSchedule{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal week schedule: %w", err)
	}
	return data, nil
}

func (m *WeekSchedule) Scan(value interface{}) error {
	return scanJSON(value, m, "WeekSchedule")
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, name)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

// StaffWorkloadData is the administrative workload allocation for one staff
// member in one semester. Read-only to analytics.
type StaffWorkloadData struct {
	ID                string        `db:"id" json:"id"`
	StaffID           string        `db:"staff_id" json:"staff_id"`
	Semester          string        `db:"semester" json:"semester"`
	SemesterStart     time.Time     `db:"semester_start" json:"semester_start"`
	SemesterEnd       time.Time     `db:"semester_end" json:"semester_end"`
	PeriodsPerSubject PeriodsMap    `db:"periods_per_subject" json:"periods_per_subject"`
	ClassesByGrade    GradeClassMap `db:"classes_by_grade" json:"classes_by_grade"`
	WeeklySchedule    WeekSchedule  `db:"weekly_schedule" json:"weekly_schedule"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// TotalPeriodsPerWeek sums the allocated periods across subjects. All derived
// hour calculations flow from this value.
func (w StaffWorkloadData) TotalPeriodsPerWeek() int {
	total := 0
	for _, periods := range w.PeriodsPerSubject {
		total += periods
	}
	return total
}

// WorkloadAlert flags a threshold breach. Immutable once created; superseded
// wholesale by the next computation.
type WorkloadAlert struct {
	ID        string        `json:"id"`
	StaffID   string        `json:"staff_id"`
	Message   string        `json:"message"`
	Severity  AlertSeverity `json:"severity"`
	Timestamp time.Time     `json:"timestamp"`
	Read      bool          `json:"read"`
}

// WorkloadAnalytics is the derived workload picture for one staff member
// over one date range. Computed fresh on each query; cacheable.
type WorkloadAnalytics struct {
	StaffID            string                   `json:"staff_id"`
	Period             DateRange                `json:"period"`
	TotalWorkingHours  float64                  `json:"total_working_hours"`
	WeeklyAverageHours float64                  `json:"weekly_average_hours"`
	HoursByWeek        map[string]float64       `json:"hours_by_week"`
	HoursByMonth       map[string]float64       `json:"hours_by_month"`
	HoursByActivity    map[ActivityType]float64 `json:"hours_by_activity"`
	Trend              TrendDirection           `json:"trend"`
	Alerts             []WorkloadAlert          `json:"alerts"`
}
