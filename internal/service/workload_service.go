package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
)

// Derived-hour factors. Preparation and evaluation scale with teaching load;
// the administrative block is a fixed weekly allowance that decomposes into
// OD processing and meeting estimates.
const (
	prepFactor               = 0.5
	evalFactor               = 0.3
	adminHoursPerWeek        = 5.0
	odProcessingHoursPerWeek = 2.0
	meetingHoursPerWeek      = 3.0

	overworkWeeklyHours  = 50.0
	underworkWeeklyHours = 20.0
	minTeachingShare     = 0.40
	trendThresholdPct    = 10.0
)

type workloadStore interface {
	GetCurrent(ctx context.Context, staffID string) (*models.StaffWorkloadData, error)
}

// WorkloadService computes working hours, activity distribution, trend and
// alerts from administrative workload allocations. All computations are
// read-only and safe to run concurrently across staff ids.
type WorkloadService struct {
	repo    workloadStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
}

// NewWorkloadService constructs the service.
func NewWorkloadService(repo workloadStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// CalculateWorkingHours returns total working hours for the staff member
// over the date range. A staff member without a workload allocation works
// zero derived hours — that is a valid result, not an error.
func (s *WorkloadService) CalculateWorkingHours(ctx context.Context, staffID string, period models.DateRange) (float64, error) {
	workload, err := s.repo.GetCurrent(ctx, staffID)
	if err != nil {
		return 0, err
	}
	if workload == nil {
		return 0.0, nil
	}
	return totalHours(workload, period), nil
}

// CalculateActivityDistribution breaks total working hours down by activity
// type. The values always sum to CalculateWorkingHours for the same inputs;
// an empty map is returned when total hours are zero.
func (s *WorkloadService) CalculateActivityDistribution(ctx context.Context, staffID string, period models.DateRange) (map[models.ActivityType]float64, error) {
	workload, err := s.repo.GetCurrent(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return activityDistribution(workload, period), nil
}

// GetWorkloadTrend classifies the current period against the immediately
// preceding period of equal length. A zero-hour previous period always
// yields a stable trend.
func (s *WorkloadService) GetWorkloadTrend(ctx context.Context, staffID string, period models.DateRange) (models.TrendDirection, error) {
	workload, err := s.repo.GetCurrent(ctx, staffID)
	if err != nil {
		return "", err
	}
	return workloadTrend(workload, period), nil
}

// GenerateWorkloadAlerts emits threshold alerts for the period. Alerts are
// regenerated wholesale on every call; ids are unique per invocation.
func (s *WorkloadService) GenerateWorkloadAlerts(ctx context.Context, staffID string, period models.DateRange) ([]models.WorkloadAlert, error) {
	workload, err := s.repo.GetCurrent(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return workloadAlerts(workload, staffID, period), nil
}

// GetWorkloadAnalytics assembles the full derived workload picture for one
// staff member and date range. Results are cached when a cache is wired.
func (s *WorkloadService) GetWorkloadAnalytics(ctx context.Context, staffID string, period models.DateRange) (*models.WorkloadAnalytics, error) {
	cacheKey := analyticsCacheKey("workload", staffID,
		period.Start.UTC().Format(time.RFC3339), period.End.UTC().Format(time.RFC3339))
	var cached models.WorkloadAnalytics
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, fmt.Errorf("get workload cache: %w", err)
		} else if hit {
			return &cached, nil
		}
	}

	start := time.Now()
	workload, err := s.repo.GetCurrent(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("workload_current", time.Since(start))
	}

	total := totalHours(workload, period)
	weeks := period.Weeks()
	var weeklyAverage float64
	if weeks > 0 {
		weeklyAverage = total / weeks
	}

	analytics := &models.WorkloadAnalytics{
		StaffID:            staffID,
		Period:             period,
		TotalWorkingHours:  total,
		WeeklyAverageHours: weeklyAverage,
		HoursByWeek:        hoursByWeek(workload, period),
		HoursByMonth:       hoursByMonth(workload, period),
		HoursByActivity:    activityDistribution(workload, period),
		Trend:              workloadTrend(workload, period),
		Alerts:             workloadAlerts(workload, staffID, period),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, analytics, 0); err != nil {
			s.logger.Warn("cache workload analytics", zap.Error(err))
		}
	}
	return analytics, nil
}

func weeklyHours(workload *models.StaffWorkloadData) float64 {
	if workload == nil {
		return 0
	}
	teaching := float64(workload.TotalPeriodsPerWeek())
	if teaching == 0 {
		return 0
	}
	return teaching + teaching*prepFactor + teaching*evalFactor + adminHoursPerWeek
}

func totalHours(workload *models.StaffWorkloadData, period models.DateRange) float64 {
	return weeklyHours(workload) * period.Weeks()
}

func activityDistribution(workload *models.StaffWorkloadData, period models.DateRange) map[models.ActivityType]float64 {
	total := totalHours(workload, period)
	if total == 0 {
		return map[models.ActivityType]float64{}
	}

	weeks := period.Weeks()
	teaching := float64(workload.TotalPeriodsPerWeek()) * weeks
	prep := teaching * prepFactor
	eval := teaching * evalFactor
	odProcessing := odProcessingHoursPerWeek * weeks
	meetings := meetingHoursPerWeek * weeks

	// The fixed administration allowance is reported through its OD and
	// meeting estimates; other absorbs whatever is left so the distribution
	// reconciles exactly with the total.
	named := teaching + prep + eval + odProcessing + meetings
	return map[models.ActivityType]float64{
		models.ActivityTeaching:     teaching,
		models.ActivityPreparation:  prep,
		models.ActivityEvaluation:   eval,
		models.ActivityODProcessing: odProcessing,
		models.ActivityMeetings:     meetings,
		models.ActivityOther:        total - named,
	}
}

func workloadTrend(workload *models.StaffWorkloadData, period models.DateRange) models.TrendDirection {
	current := totalHours(workload, period)
	previous := totalHours(workload, period.Previous())
	if previous == 0 {
		return models.TrendStable
	}
	change := (current - previous) / previous * 100
	switch {
	case change > trendThresholdPct:
		return models.TrendIncreasing
	case change < -trendThresholdPct:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func workloadAlerts(workload *models.StaffWorkloadData, staffID string, period models.DateRange) []models.WorkloadAlert {
	if workload == nil {
		return nil
	}
	weeks := period.Weeks()
	if weeks <= 0 {
		return nil
	}

	total := totalHours(workload, period)
	weeklyAverage := total / weeks
	now := time.Now().UTC()
	alerts := make([]models.WorkloadAlert, 0, 3)

	if weeklyAverage > overworkWeeklyHours {
		alerts = append(alerts, models.WorkloadAlert{
			ID:        uuid.NewString(),
			StaffID:   staffID,
			Message:   fmt.Sprintf("Weekly workload of %.1f hours exceeds the %.0f hour limit", weeklyAverage, overworkWeeklyHours),
			Severity:  models.SeverityHigh,
			Timestamp: now,
		})
	}
	if weeklyAverage < underworkWeeklyHours {
		alerts = append(alerts, models.WorkloadAlert{
			ID:        uuid.NewString(),
			StaffID:   staffID,
			Message:   fmt.Sprintf("Weekly workload of %.1f hours is below the %.0f hour minimum", weeklyAverage, underworkWeeklyHours),
			Severity:  models.SeverityMedium,
			Timestamp: now,
		})
	}

	if total > 0 {
		teaching := float64(workload.TotalPeriodsPerWeek()) * weeks
		if teaching/total < minTeachingShare {
			alerts = append(alerts, models.WorkloadAlert{
				ID:        uuid.NewString(),
				StaffID:   staffID,
				Message:   fmt.Sprintf("Teaching accounts for less than %.0f%% of total working hours", minTeachingShare*100),
				Severity:  models.SeverityMedium,
				Timestamp: now,
			})
		}
	}
	return alerts
}

func hoursByWeek(workload *models.StaffWorkloadData, period models.DateRange) map[string]float64 {
	buckets := make(map[string]float64)
	daily := weeklyHours(workload) / 7.0
	if daily == 0 {
		return buckets
	}
	for day := period.Start; day.Before(period.End); day = day.AddDate(0, 0, 1) {
		year, week := day.ISOWeek()
		buckets[fmt.Sprintf("%d-W%02d", year, week)] += daily
	}
	return buckets
}

func hoursByMonth(workload *models.StaffWorkloadData, period models.DateRange) map[string]float64 {
	buckets := make(map[string]float64)
	daily := weeklyHours(workload) / 7.0
	if daily == 0 {
		return buckets
	}
	for day := period.Start; day.Before(period.End); day = day.AddDate(0, 0, 1) {
		buckets[day.Format("2006-01")] += daily
	}
	return buckets
}
