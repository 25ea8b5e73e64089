package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/odtrack/analytics-api/internal/models"
)

// BenchmarkRepository reads comparator metrics produced by an external
// aggregation job. This service never computes benchmark values itself.
type BenchmarkRepository struct {
	db *sqlx.DB
}

// NewBenchmarkRepository constructs the repository.
func NewBenchmarkRepository(db *sqlx.DB) *BenchmarkRepository {
	return &BenchmarkRepository{db: db}
}

// DepartmentBenchmark returns comparison metrics for a department. A missing
// row yields zero metrics, not an error.
func (r *BenchmarkRepository) DepartmentBenchmark(ctx context.Context, department string) (models.ComparisonMetrics, error) {
	const query = `SELECT avg_processing_hours, approval_rate, response_time_hours, percentile_rank
FROM efficiency_benchmarks WHERE scope = 'department' AND scope_key = $1`
	var metrics models.ComparisonMetrics
	if err := r.db.GetContext(ctx, &metrics, query, department); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ComparisonMetrics{}, nil
		}
		return models.ComparisonMetrics{}, fmt.Errorf("get department benchmark: %w", err)
	}
	return metrics, nil
}

// InstitutionBenchmark returns institution-wide comparison metrics.
func (r *BenchmarkRepository) InstitutionBenchmark(ctx context.Context) (models.ComparisonMetrics, error) {
	const query = `SELECT avg_processing_hours, approval_rate, response_time_hours, percentile_rank
FROM efficiency_benchmarks WHERE scope = 'institution' AND scope_key = ''`
	var metrics models.ComparisonMetrics
	if err := r.db.GetContext(ctx, &metrics, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ComparisonMetrics{}, nil
		}
		return models.ComparisonMetrics{}, fmt.Errorf("get institution benchmark: %w", err)
	}
	return metrics, nil
}

// SatisfactionScore returns the aggregated student feedback score for a
// staff member, zero when no feedback has been recorded.
func (r *BenchmarkRepository) SatisfactionScore(ctx context.Context, staffID string) (float64, error) {
	const query = `SELECT score FROM staff_satisfaction_scores WHERE staff_id = $1`
	var score float64
	if err := r.db.GetContext(ctx, &score, query, staffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get satisfaction score: %w", err)
	}
	return score, nil
}
