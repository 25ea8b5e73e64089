package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
)

type stubWorkloadProvider struct {
	analytics models.WorkloadAnalytics
}

func (s *stubWorkloadProvider) GetWorkloadAnalytics(ctx context.Context, staffID string, period models.DateRange) (*models.WorkloadAnalytics, error) {
	out := s.analytics
	out.StaffID = staffID
	out.Period = period
	return &out, nil
}

type stubTeachingProvider struct {
	analytics models.TeachingAnalytics
}

func (s *stubTeachingProvider) GetTeachingAnalytics(ctx context.Context, staffID string) (*models.TeachingAnalytics, error) {
	out := s.analytics
	out.StaffID = staffID
	return &out, nil
}

type stubEfficiencyProvider struct {
	metrics models.EfficiencyMetrics
}

func (s *stubEfficiencyProvider) GetEfficiencyMetrics(ctx context.Context, staffID string, period models.DateRange) (*models.EfficiencyMetrics, error) {
	out := s.metrics
	out.StaffID = staffID
	out.Period = period
	return &out, nil
}

func performanceService(weeklyHours, approvalRate, responseHours float64, staffErr error) *PerformanceService {
	staff := &stubStaffReader{
		profile: &models.StaffProfile{ID: "staff-1", Name: "Meena", Department: "CSE"},
		err:     staffErr,
	}
	svc := NewPerformanceService(
		&stubWorkloadProvider{analytics: models.WorkloadAnalytics{WeeklyAverageHours: weeklyHours}},
		&stubTeachingProvider{},
		&stubEfficiencyProvider{metrics: models.EfficiencyMetrics{
			ODApprovalRate:    approvalRate,
			ResponseTimeHours: responseHours,
		}},
		staff,
		nil,
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGeneratePerformanceReportStrengths(t *testing.T) {
	svc := performanceService(40, 90, 10, nil)

	report, err := svc.GeneratePerformanceReport(context.Background(), "staff-1")
	require.NoError(t, err)

	assert.Equal(t, "Meena", report.StaffName)
	assert.Equal(t, "CSE", report.Department)
	assert.Len(t, report.Strengths, 3)
	assert.Empty(t, report.ImprovementAreas)
	assert.Empty(t, report.Recommendations)

	// Trailing 180-day window ending at the clock time.
	assert.Equal(t, time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC), report.Period.End)
	assert.InDelta(t, 180.0, report.Period.Days(), 0.01)
}

func TestGeneratePerformanceReportImprovements(t *testing.T) {
	svc := performanceService(20, 50, 100, nil)

	report, err := svc.GeneratePerformanceReport(context.Background(), "staff-1")
	require.NoError(t, err)

	assert.Empty(t, report.Strengths)
	assert.Len(t, report.ImprovementAreas, 3)
	assert.Len(t, report.Recommendations, 3)
}

func TestGeneratePerformanceReportBoundaryValuesNeutral(t *testing.T) {
	// Values exactly at the thresholds trigger neither strengths nor
	// improvement areas.
	svc := performanceService(35, 80, 24, nil)

	report, err := svc.GeneratePerformanceReport(context.Background(), "staff-1")
	require.NoError(t, err)

	assert.Empty(t, report.Strengths)
	assert.Empty(t, report.ImprovementAreas)
	assert.Empty(t, report.Recommendations)
}

func TestGeneratePerformanceReportMixed(t *testing.T) {
	// High commitment but slow responses.
	svc := performanceService(45, 70, 96, nil)

	report, err := svc.GeneratePerformanceReport(context.Background(), "staff-1")
	require.NoError(t, err)

	assert.Len(t, report.Strengths, 1)
	assert.Len(t, report.ImprovementAreas, 1)
	assert.Len(t, report.Recommendations, 1)
}

func TestGeneratePerformanceReportStaffNotFound(t *testing.T) {
	svc := performanceService(40, 90, 10, sql.ErrNoRows)

	_, err := svc.GeneratePerformanceReport(context.Background(), "ghost")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
