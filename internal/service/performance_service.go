package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
)

// Performance reports always cover the trailing 180 days.
const performanceWindowDays = 180

// Narrative rule thresholds. All comparisons are strict: a value exactly at
// a boundary triggers neither branch.
const (
	highCommitmentWeeklyHours = 35.0
	lowWeeklyHours            = 25.0
	highApprovalRate          = 80.0
	lowApprovalRate           = 60.0
	quickResponseHours        = 24.0
	slowResponseHours         = 72.0
)

type workloadAnalyticsProvider interface {
	GetWorkloadAnalytics(ctx context.Context, staffID string, period models.DateRange) (*models.WorkloadAnalytics, error)
}

type teachingAnalyticsProvider interface {
	GetTeachingAnalytics(ctx context.Context, staffID string) (*models.TeachingAnalytics, error)
}

type efficiencyMetricsProvider interface {
	GetEfficiencyMetrics(ctx context.Context, staffID string, period models.DateRange) (*models.EfficiencyMetrics, error)
}

// PerformanceService synthesizes narrative performance reports from the
// workload, teaching and efficiency engines.
type PerformanceService struct {
	workload   workloadAnalyticsProvider
	teaching   teachingAnalyticsProvider
	efficiency efficiencyMetricsProvider
	staff      staffReader
	logger     *zap.Logger
	now        func() time.Time
}

// NewPerformanceService constructs the service.
func NewPerformanceService(workload workloadAnalyticsProvider, teaching teachingAnalyticsProvider, efficiency efficiencyMetricsProvider, staff staffReader, logger *zap.Logger) *PerformanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceService{
		workload:   workload,
		teaching:   teaching,
		efficiency: efficiency,
		staff:      staff,
		logger:     logger,
		now:        time.Now,
	}
}

// GeneratePerformanceReport builds the full report for a staff member over
// the trailing window.
func (s *PerformanceService) GeneratePerformanceReport(ctx context.Context, staffID string) (*models.StaffPerformanceReport, error) {
	profile, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, err
	}

	end := s.now().UTC()
	period := models.DateRange{Start: end.AddDate(0, 0, -performanceWindowDays), End: end}

	workload, err := s.workload.GetWorkloadAnalytics(ctx, staffID, period)
	if err != nil {
		return nil, err
	}
	teaching, err := s.teaching.GetTeachingAnalytics(ctx, staffID)
	if err != nil {
		return nil, err
	}
	efficiency, err := s.efficiency.GetEfficiencyMetrics(ctx, staffID, period)
	if err != nil {
		return nil, err
	}

	report := &models.StaffPerformanceReport{
		StaffID:          staffID,
		StaffName:        profile.Name,
		Department:       profile.Department,
		Period:           period,
		Workload:         *workload,
		Teaching:         *teaching,
		Efficiency:       *efficiency,
		Strengths:        []string{},
		ImprovementAreas: []string{},
		Recommendations:  []string{},
		GeneratedAt:      s.now().UTC(),
	}
	applyNarrativeRules(report)
	return report, nil
}

func applyNarrativeRules(report *models.StaffPerformanceReport) {
	weeklyAverage := report.Workload.WeeklyAverageHours
	if weeklyAverage > highCommitmentWeeklyHours {
		report.Strengths = append(report.Strengths, "Maintains a high level of commitment with a substantial weekly workload")
	}
	if weeklyAverage < lowWeeklyHours {
		report.ImprovementAreas = append(report.ImprovementAreas, "Weekly working hours are below the expected range")
		report.Recommendations = append(report.Recommendations, "Consider taking on additional teaching or administrative responsibilities")
	}

	approvalRate := report.Efficiency.ODApprovalRate
	if approvalRate > highApprovalRate {
		report.Strengths = append(report.Strengths, "High OD approval rate reflects consistent and fair request handling")
	}
	if approvalRate < lowApprovalRate {
		report.ImprovementAreas = append(report.ImprovementAreas, "OD approval rate is lower than expected")
		report.Recommendations = append(report.Recommendations, "Review OD approval criteria to ensure requests are assessed consistently")
	}

	responseTime := report.Efficiency.ResponseTimeHours
	if responseTime < quickResponseHours {
		report.Strengths = append(report.Strengths, "Responds to OD requests quickly")
	}
	if responseTime > slowResponseHours {
		report.ImprovementAreas = append(report.ImprovementAreas, "OD requests take too long to receive a decision")
		report.Recommendations = append(report.Recommendations, "Aim to respond to OD requests within 48 hours")
	}
}
