package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// EnrollmentRepository reads real class enrollment counts. Replaces the
// synthesized student counts the legacy client generated.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// StudentCounts returns enrollment per class name. Classes without an
// enrollment row are absent from the result.
func (r *EnrollmentRepository) StudentCounts(ctx context.Context, classNames []string) (map[string]int, error) {
	if len(classNames) == 0 {
		return map[string]int{}, nil
	}
	const query = `SELECT class_name, COUNT(*) AS count
FROM enrollments WHERE class_name = ANY($1) GROUP BY class_name`
	rows := []struct {
		ClassName string `db:"class_name"`
		Count     int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(classNames)); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ClassName] = row.Count
	}
	return counts, nil
}
