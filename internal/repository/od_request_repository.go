package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/odtrack/analytics-api/internal/models"
)

const odRequestColumns = `id, student_id, register_number, student_name, staff_id, department, date, periods, reason,
attachment_url, status, approved_by_id, approved_at, rejection_reason, created_at, updated_at`

// ODRequestRepository reads on-duty request records.
type ODRequestRepository struct {
	db *sqlx.DB
}

// NewODRequestRepository constructs the repository.
func NewODRequestRepository(db *sqlx.DB) *ODRequestRepository {
	return &ODRequestRepository{db: db}
}

// ListByStaffAndRange returns requests assigned to a staff member created
// within [start, end).
func (r *ODRequestRepository) ListByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]models.ODRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM od_requests
WHERE staff_id = $1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at DESC`, odRequestColumns)
	var requests []models.ODRequest
	if err := r.db.SelectContext(ctx, &requests, query, staffID, start, end); err != nil {
		return nil, fmt.Errorf("list od requests by staff: %w", err)
	}
	return requests, nil
}

// ListByStudentAndRange returns a student's requests created within [start, end).
func (r *ODRequestRepository) ListByStudentAndRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ODRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM od_requests
WHERE student_id = $1 AND created_at >= $2 AND created_at < $3 ORDER BY created_at DESC`, odRequestColumns)
	var requests []models.ODRequest
	if err := r.db.SelectContext(ctx, &requests, query, studentID, start, end); err != nil {
		return nil, fmt.Errorf("list od requests by student: %w", err)
	}
	return requests, nil
}

// ListByIDs returns requests matching the given ids.
func (r *ODRequestRepository) ListByIDs(ctx context.Context, ids []string) ([]models.ODRequest, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM od_requests WHERE id = ANY($1) ORDER BY created_at DESC`, odRequestColumns)
	var requests []models.ODRequest
	if err := r.db.SelectContext(ctx, &requests, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list od requests by ids: %w", err)
	}
	return requests, nil
}

// Count returns the total number of requests.
func (r *ODRequestRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM od_requests`); err != nil {
		return 0, fmt.Errorf("count od requests: %w", err)
	}
	return count, nil
}

// StatusCounts returns the request count per status.
func (r *ODRequestRepository) StatusCounts(ctx context.Context) (map[models.ODStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM od_requests GROUP BY status`
	rows := []struct {
		Status models.ODStatus `db:"status"`
		Count  int             `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count od requests by status: %w", err)
	}
	counts := make(map[models.ODStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TopStudents returns the most frequent requesters, descending.
func (r *ODRequestRepository) TopStudents(ctx context.Context, limit int) ([]models.StudentRequestCount, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT register_number, student_name, COUNT(*) AS count
FROM od_requests GROUP BY register_number, student_name ORDER BY count DESC LIMIT $1`
	var rows []models.StudentRequestCount
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list top students: %w", err)
	}
	return rows, nil
}
