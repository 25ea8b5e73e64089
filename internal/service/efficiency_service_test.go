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

type stubRequestReader struct {
	requests    []models.ODRequest
	count       int
	statuses    map[models.ODStatus]int
	topStudents []models.StudentRequestCount
}

func (s *stubRequestReader) ListByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]models.ODRequest, error) {
	return s.requests, nil
}

func (s *stubRequestReader) Count(ctx context.Context) (int, error) {
	return s.count, nil
}

func (s *stubRequestReader) StatusCounts(ctx context.Context) (map[models.ODStatus]int, error) {
	return s.statuses, nil
}

func (s *stubRequestReader) TopStudents(ctx context.Context, limit int) ([]models.StudentRequestCount, error) {
	if limit < len(s.topStudents) {
		return s.topStudents[:limit], nil
	}
	return s.topStudents, nil
}

type stubBenchmarkSource struct {
	department   models.ComparisonMetrics
	institution  models.ComparisonMetrics
	satisfaction float64
}

func (s *stubBenchmarkSource) DepartmentBenchmark(ctx context.Context, department string) (models.ComparisonMetrics, error) {
	return s.department, nil
}

func (s *stubBenchmarkSource) InstitutionBenchmark(ctx context.Context) (models.ComparisonMetrics, error) {
	return s.institution, nil
}

func (s *stubBenchmarkSource) SatisfactionScore(ctx context.Context, staffID string) (float64, error) {
	return s.satisfaction, nil
}

type stubStaffReader struct {
	profile *models.StaffProfile
	err     error
}

func (s *stubStaffReader) GetByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	return s.profile, s.err
}

func approvalPeriod() models.DateRange {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return models.DateRange{Start: start, End: start.AddDate(0, 1, 0)}
}

func decidedRequest(created time.Time, hoursToDecision float64) models.ODRequest {
	decided := created.Add(time.Duration(hoursToDecision * float64(time.Hour)))
	return models.ODRequest{
		Status:     models.ODStatusApproved,
		CreatedAt:  created,
		ApprovedAt: &decided,
	}
}

func TestGetEfficiencyMetrics(t *testing.T) {
	created := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	requests := []models.ODRequest{
		decidedRequest(created, 4),
		decidedRequest(created.AddDate(0, 0, 1), 8),
		decidedRequest(created.AddDate(0, 0, 2), 12),
		decidedRequest(created.AddDate(0, 0, 3), 24),
		{Status: models.ODStatusPending, CreatedAt: created.AddDate(0, 0, 4)},
	}
	reader := &stubRequestReader{requests: requests}
	benchmarks := &stubBenchmarkSource{
		department:   models.ComparisonMetrics{ApprovalRate: 75, PercentileRank: 60},
		institution:  models.ComparisonMetrics{ApprovalRate: 70, PercentileRank: 55},
		satisfaction: 4.2,
	}
	staff := &stubStaffReader{profile: &models.StaffProfile{ID: "staff-1", Department: "CSE"}}
	svc := NewEfficiencyService(reader, benchmarks, staff, nil, nil, nil)

	metrics, err := svc.GetEfficiencyMetrics(context.Background(), "staff-1", approvalPeriod())
	require.NoError(t, err)

	assert.Equal(t, 5, metrics.TotalProcessed)
	assert.InDelta(t, 80.0, metrics.ODApprovalRate, 0.001)
	assert.InDelta(t, 12.0, metrics.AverageProcessingHours, 0.001)
	assert.Equal(t, metrics.AverageProcessingHours, metrics.ResponseTimeHours)
	assert.Equal(t, 4, metrics.StatusBreakdown[models.ODStatusApproved])
	assert.Equal(t, 1, metrics.StatusBreakdown[models.ODStatusPending])
	assert.InDelta(t, 4.2, metrics.SatisfactionScore, 0.001)
	assert.InDelta(t, 75.0, metrics.DepartmentComparison.ApprovalRate, 0.001)
	assert.InDelta(t, 70.0, metrics.InstitutionComparison.ApprovalRate, 0.001)
}

func TestGetEfficiencyMetricsNoRequests(t *testing.T) {
	svc := NewEfficiencyService(&stubRequestReader{}, &stubBenchmarkSource{}, &stubStaffReader{}, nil, nil, nil)

	metrics, err := svc.GetEfficiencyMetrics(context.Background(), "staff-1", approvalPeriod())
	require.NoError(t, err)

	assert.Zero(t, metrics.TotalProcessed)
	assert.Zero(t, metrics.ODApprovalRate)
	assert.Zero(t, metrics.AverageProcessingHours)
	assert.Zero(t, metrics.ResponseTimeHours)
	assert.NotNil(t, metrics.StatusBreakdown)
	assert.Empty(t, metrics.StatusBreakdown)
}

func TestGetEfficiencyMetricsStaffNotFound(t *testing.T) {
	reader := &stubRequestReader{requests: []models.ODRequest{
		decidedRequest(time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 4),
	}}
	staff := &stubStaffReader{err: sql.ErrNoRows}
	svc := NewEfficiencyService(reader, &stubBenchmarkSource{}, staff, nil, nil, nil)

	_, err := svc.GetEfficiencyMetrics(context.Background(), "ghost", approvalPeriod())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGetDashboardStats(t *testing.T) {
	reader := &stubRequestReader{
		count: 12,
		statuses: map[models.ODStatus]int{
			models.ODStatusApproved: 7,
			models.ODStatusRejected: 2,
			models.ODStatusPending:  3,
		},
		topStudents: []models.StudentRequestCount{
			{RegisterNumber: "21CS001", StudentName: "Priya", Count: 4},
			{RegisterNumber: "21CS014", StudentName: "Arun", Count: 3},
		},
	}
	svc := NewEfficiencyService(reader, nil, nil, nil, nil, nil)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.TotalRequests)
	assert.Equal(t, 7, stats.StatusDistribution[models.ODStatusApproved])
	require.Len(t, stats.TopStudents, 2)
	assert.Equal(t, "21CS001", stats.TopStudents[0].RegisterNumber)
}

func TestGetDashboardStatsEmpty(t *testing.T) {
	svc := NewEfficiencyService(&stubRequestReader{}, nil, nil, nil, nil, nil)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRequests)
	assert.Empty(t, stats.StatusDistribution)
	assert.Empty(t, stats.TopStudents)
}
