package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
)

type odRequestReader interface {
	ListByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]models.ODRequest, error)
	Count(ctx context.Context) (int, error)
	StatusCounts(ctx context.Context) (map[models.ODStatus]int, error)
	TopStudents(ctx context.Context, limit int) ([]models.StudentRequestCount, error)
}

type benchmarkSource interface {
	DepartmentBenchmark(ctx context.Context, department string) (models.ComparisonMetrics, error)
	InstitutionBenchmark(ctx context.Context) (models.ComparisonMetrics, error)
	SatisfactionScore(ctx context.Context, staffID string) (float64, error)
}

type staffReader interface {
	GetByID(ctx context.Context, id string) (*models.StaffProfile, error)
}

// EfficiencyService derives OD-processing KPIs from request records and
// places them against externally computed benchmarks.
type EfficiencyService struct {
	requests   odRequestReader
	benchmarks benchmarkSource
	staff      staffReader
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewEfficiencyService constructs the service.
func NewEfficiencyService(requests odRequestReader, benchmarks benchmarkSource, staff staffReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *EfficiencyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EfficiencyService{requests: requests, benchmarks: benchmarks, staff: staff, cache: cache, metrics: metrics, logger: logger}
}

// GetEfficiencyMetrics computes KPIs over requests assigned to the staff
// member with createdAt in [start, end). Zero matching requests produce an
// all-zero metrics object, never an error.
func (s *EfficiencyService) GetEfficiencyMetrics(ctx context.Context, staffID string, period models.DateRange) (*models.EfficiencyMetrics, error) {
	cacheKey := analyticsCacheKey("efficiency", staffID,
		period.Start.UTC().Format(time.RFC3339), period.End.UTC().Format(time.RFC3339))
	var cached models.EfficiencyMetrics
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			return nil, fmt.Errorf("get efficiency cache: %w", err)
		} else if hit {
			return &cached, nil
		}
	}

	start := time.Now()
	requests, err := s.requests.ListByStaffAndRange(ctx, staffID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("od_requests_by_staff", time.Since(start))
	}

	result := &models.EfficiencyMetrics{
		StaffID:         staffID,
		Period:          period,
		StatusBreakdown: map[models.ODStatus]int{},
	}
	if len(requests) == 0 {
		return result, nil
	}

	var approved int
	var decidedCount int
	var processingHoursTotal float64
	for _, request := range requests {
		result.StatusBreakdown[request.Status]++
		if request.Status == models.ODStatusApproved {
			approved++
		}
		if request.ApprovedAt != nil {
			decidedCount++
			processingHoursTotal += request.ApprovedAt.Sub(request.CreatedAt).Hours()
		}
	}

	result.TotalProcessed = len(requests)
	result.ODApprovalRate = float64(approved) / float64(len(requests)) * 100
	if decidedCount > 0 {
		result.AverageProcessingHours = processingHoursTotal / float64(decidedCount)
	}
	// Response time intentionally mirrors the decision delta; the two fields
	// stay separate on the wire so they can diverge without a contract change.
	result.ResponseTimeHours = result.AverageProcessingHours

	if err := s.attachBenchmarks(ctx, staffID, result); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, 0); err != nil {
			s.logger.Warn("cache efficiency metrics", zap.Error(err))
		}
	}
	return result, nil
}

func (s *EfficiencyService) attachBenchmarks(ctx context.Context, staffID string, metrics *models.EfficiencyMetrics) error {
	if s.benchmarks == nil {
		return nil
	}

	score, err := s.benchmarks.SatisfactionScore(ctx, staffID)
	if err != nil {
		return err
	}
	metrics.SatisfactionScore = score

	if s.staff != nil {
		profile, err := s.staff.GetByID(ctx, staffID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
			}
			return err
		}
		department, err := s.benchmarks.DepartmentBenchmark(ctx, profile.Department)
		if err != nil {
			return err
		}
		metrics.DepartmentComparison = department
	}

	institution, err := s.benchmarks.InstitutionBenchmark(ctx)
	if err != nil {
		return err
	}
	metrics.InstitutionComparison = institution
	return nil
}

// GetDashboardStats aggregates request volume across the institution.
func (s *EfficiencyService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	total, err := s.requests.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats := &models.DashboardStats{
		TotalRequests:      total,
		StatusDistribution: map[models.ODStatus]int{},
	}
	if total == 0 {
		return stats, nil
	}

	counts, err := s.requests.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.StatusDistribution = counts

	top, err := s.requests.TopStudents(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopStudents = top
	return stats, nil
}

func analyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
