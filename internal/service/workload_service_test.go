package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtrack/analytics-api/internal/models"
)

type stubWorkloadStore struct {
	workload *models.StaffWorkloadData
	err      error
}

func (s *stubWorkloadStore) GetCurrent(ctx context.Context, staffID string) (*models.StaffWorkloadData, error) {
	return s.workload, s.err
}

func twoWeekPeriod() models.DateRange {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return models.DateRange{Start: start, End: start.AddDate(0, 0, 14)}
}

func mathPhysicsWorkload() *models.StaffWorkloadData {
	return &models.StaffWorkloadData{
		StaffID:  "staff-1",
		Semester: "2026-ODD",
		PeriodsPerSubject: models.PeriodsMap{
			"MATH": 10,
			"PHYS": 8,
		},
	}
}

func TestCalculateWorkingHours(t *testing.T) {
	svc := NewWorkloadService(&stubWorkloadStore{workload: mathPhysicsWorkload()}, nil, nil, nil)

	hours, err := svc.CalculateWorkingHours(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)

	// 18 teaching + 9 preparation + 5.4 evaluation + 5 administration per
	// week, over two weeks.
	assert.InDelta(t, 74.8, hours, 0.001)
}

func TestCalculateWorkingHoursWithoutAllocation(t *testing.T) {
	svc := NewWorkloadService(&stubWorkloadStore{}, nil, nil, nil)

	hours, err := svc.CalculateWorkingHours(context.Background(), "staff-missing", twoWeekPeriod())
	require.NoError(t, err)
	assert.Zero(t, hours)
}

func TestActivityDistributionSumsToWorkingHours(t *testing.T) {
	store := &stubWorkloadStore{workload: mathPhysicsWorkload()}
	svc := NewWorkloadService(store, nil, nil, nil)
	period := twoWeekPeriod()

	total, err := svc.CalculateWorkingHours(context.Background(), "staff-1", period)
	require.NoError(t, err)

	distribution, err := svc.CalculateActivityDistribution(context.Background(), "staff-1", period)
	require.NoError(t, err)
	require.NotEmpty(t, distribution)

	var sum float64
	for _, hours := range distribution {
		sum += hours
	}
	assert.InDelta(t, total, sum, 0.0001)

	assert.InDelta(t, 36.0, distribution[models.ActivityTeaching], 0.001)
	assert.InDelta(t, 18.0, distribution[models.ActivityPreparation], 0.001)
	assert.InDelta(t, 10.8, distribution[models.ActivityEvaluation], 0.001)
	assert.InDelta(t, 4.0, distribution[models.ActivityODProcessing], 0.001)
	assert.InDelta(t, 6.0, distribution[models.ActivityMeetings], 0.001)
}

func TestActivityDistributionEmptyWithoutLoad(t *testing.T) {
	svc := NewWorkloadService(&stubWorkloadStore{}, nil, nil, nil)

	distribution, err := svc.CalculateActivityDistribution(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	assert.Empty(t, distribution)
}

func TestWorkloadTrendStable(t *testing.T) {
	// A fixed allocation produces identical hours in the current and
	// previous windows.
	svc := NewWorkloadService(&stubWorkloadStore{workload: mathPhysicsWorkload()}, nil, nil, nil)

	trend, err := svc.GetWorkloadTrend(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	assert.Equal(t, models.TrendStable, trend)
}

func TestWorkloadTrendStableWhenPreviousIsZero(t *testing.T) {
	svc := NewWorkloadService(&stubWorkloadStore{}, nil, nil, nil)

	trend, err := svc.GetWorkloadTrend(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	assert.Equal(t, models.TrendStable, trend)
}

func TestGenerateWorkloadAlertsOverwork(t *testing.T) {
	// 30 teaching periods derive to 59 weekly hours, over the 50 hour cap.
	workload := &models.StaffWorkloadData{
		StaffID:           "staff-1",
		PeriodsPerSubject: models.PeriodsMap{"MATH": 30},
	}
	svc := NewWorkloadService(&stubWorkloadStore{workload: workload}, nil, nil, nil)

	alerts, err := svc.GenerateWorkloadAlerts(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, "staff-1", alerts[0].StaffID)
	assert.NotEmpty(t, alerts[0].ID)
}

func TestGenerateWorkloadAlertsUnderwork(t *testing.T) {
	// 8 teaching periods derive to 19.4 weekly hours, under the 20 hour
	// floor, while the teaching share stays above 40%.
	workload := &models.StaffWorkloadData{
		StaffID:           "staff-1",
		PeriodsPerSubject: models.PeriodsMap{"MATH": 8},
	}
	svc := NewWorkloadService(&stubWorkloadStore{workload: workload}, nil, nil, nil)

	alerts, err := svc.GenerateWorkloadAlerts(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityMedium, alerts[0].Severity)
}

func TestGenerateWorkloadAlertsUniqueIDs(t *testing.T) {
	workload := &models.StaffWorkloadData{
		StaffID:           "staff-1",
		PeriodsPerSubject: models.PeriodsMap{"MATH": 5},
	}
	svc := NewWorkloadService(&stubWorkloadStore{workload: workload}, nil, nil, nil)

	alerts, err := svc.GenerateWorkloadAlerts(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	require.Greater(t, len(alerts), 1)

	seen := make(map[string]struct{})
	for _, alert := range alerts {
		_, dup := seen[alert.ID]
		assert.False(t, dup, "alert id %s repeated", alert.ID)
		seen[alert.ID] = struct{}{}
	}
}

func TestGenerateWorkloadAlertsNoAllocation(t *testing.T) {
	svc := NewWorkloadService(&stubWorkloadStore{}, nil, nil, nil)

	alerts, err := svc.GenerateWorkloadAlerts(context.Background(), "staff-1", twoWeekPeriod())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestGetWorkloadAnalytics(t *testing.T) {
	svc := NewWorkloadService(&stubWorkloadStore{workload: mathPhysicsWorkload()}, nil, nil, nil)
	period := twoWeekPeriod()

	analytics, err := svc.GetWorkloadAnalytics(context.Background(), "staff-1", period)
	require.NoError(t, err)

	assert.Equal(t, "staff-1", analytics.StaffID)
	assert.Equal(t, period, analytics.Period)
	assert.InDelta(t, 74.8, analytics.TotalWorkingHours, 0.001)
	assert.InDelta(t, 37.4, analytics.WeeklyAverageHours, 0.001)
	assert.Equal(t, models.TrendStable, analytics.Trend)
	assert.Empty(t, analytics.Alerts)

	// Two full ISO weeks and a single calendar month.
	require.Len(t, analytics.HoursByWeek, 2)
	for _, hours := range analytics.HoursByWeek {
		assert.InDelta(t, 37.4, hours, 0.001)
	}
	require.Len(t, analytics.HoursByMonth, 1)
	assert.InDelta(t, 74.8, analytics.HoursByMonth["2026-03"], 0.001)

	var sum float64
	for _, hours := range analytics.HoursByActivity {
		sum += hours
	}
	assert.InDelta(t, analytics.TotalWorkingHours, sum, 0.0001)
}
