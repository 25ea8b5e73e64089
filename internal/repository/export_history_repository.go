package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/odtrack/analytics-api/internal/models"
)

const exportColumns = `id, type, file_name, file_path, format, file_size, created_at, success, error_message`

// ExportHistoryRepository persists export outcome records. Appends from
// concurrent exports are safe: each attempt inserts its own row.
type ExportHistoryRepository struct {
	db *sqlx.DB
}

// NewExportHistoryRepository constructs the repository.
func NewExportHistoryRepository(db *sqlx.DB) *ExportHistoryRepository {
	return &ExportHistoryRepository{db: db}
}

// Insert appends one export result.
func (r *ExportHistoryRepository) Insert(ctx context.Context, result *models.ExportResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO export_history (id, type, file_name, file_path, format, file_size, created_at, success, error_message)
VALUES (:id, :type, :file_name, :file_path, :format, :file_size, :created_at, :success, :error_message)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("insert export result: %w", err)
	}
	return nil
}

// GetByID returns one export result.
func (r *ExportHistoryRepository) GetByID(ctx context.Context, id string) (*models.ExportResult, error) {
	query := fmt.Sprintf(`SELECT %s FROM export_history WHERE id = $1`, exportColumns)
	var result models.ExportResult
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, fmt.Errorf("get export result: %w", err)
	}
	return &result, nil
}

// List returns history entries newest-first, narrowed by the filter.
func (r *ExportHistoryRepository) List(ctx context.Context, filter models.ExportHistoryFilter) ([]models.ExportResult, error) {
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	argPos := 1

	if filter.Format != nil {
		where = append(where, fmt.Sprintf("format = $%d", argPos))
		args = append(args, *filter.Format)
		argPos++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}
	if filter.SuccessOnly {
		where = append(where, "success = TRUE")
	}
	if filter.Query != "" {
		where = append(where, fmt.Sprintf("(file_name ILIKE $%d OR COALESCE(error_message, '') ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Query+"%")
		argPos++
	}

	query := fmt.Sprintf(`SELECT %s FROM export_history`, exportColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var results []models.ExportResult
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("list export history: %w", err)
	}
	return results, nil
}

// ListOlderThan returns entries created before the cutoff.
func (r *ExportHistoryRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.ExportResult, error) {
	query := fmt.Sprintf(`SELECT %s FROM export_history WHERE created_at < $1 ORDER BY created_at ASC`, exportColumns)
	var results []models.ExportResult
	if err := r.db.SelectContext(ctx, &results, query, cutoff); err != nil {
		return nil, fmt.Errorf("list export history older than: %w", err)
	}
	return results, nil
}

// Delete removes one history entry.
func (r *ExportHistoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM export_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete export result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete export result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete export result: no row for id %s", id)
	}
	return nil
}
