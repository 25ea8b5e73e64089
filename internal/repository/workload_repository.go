package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/odtrack/analytics-api/internal/models"
)

const workloadColumns = `id, staff_id, semester, semester_start, semester_end, periods_per_subject,
classes_by_grade, weekly_schedule, updated_at`

// WorkloadRepository reads staff workload allocation records.
type WorkloadRepository struct {
	db *sqlx.DB
}

// NewWorkloadRepository constructs the repository.
func NewWorkloadRepository(db *sqlx.DB) *WorkloadRepository {
	return &WorkloadRepository{db: db}
}

// GetCurrent returns the staff member's most recent allocation, selected by
// explicit semester end date. Returns (nil, nil) when no allocation exists —
// an empty workload is a valid state, not an error.
func (r *WorkloadRepository) GetCurrent(ctx context.Context, staffID string) (*models.StaffWorkloadData, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_workloads
WHERE staff_id = $1 ORDER BY semester_end DESC LIMIT 1`, workloadColumns)
	var workload models.StaffWorkloadData
	if err := r.db.GetContext(ctx, &workload, query, staffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current workload: %w", err)
	}
	return &workload, nil
}

// GetBySemester returns one staff member's allocation for a named semester.
func (r *WorkloadRepository) GetBySemester(ctx context.Context, staffID, semester string) (*models.StaffWorkloadData, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_workloads
WHERE staff_id = $1 AND semester = $2`, workloadColumns)
	var workload models.StaffWorkloadData
	if err := r.db.GetContext(ctx, &workload, query, staffID, semester); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workload by semester: %w", err)
	}
	return &workload, nil
}
