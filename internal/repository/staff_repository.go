package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/odtrack/analytics-api/internal/models"
)

// StaffRepository reads staff profile records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs the repository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// GetByID returns one staff profile.
func (r *StaffRepository) GetByID(ctx context.Context, id string) (*models.StaffProfile, error) {
	const query = `SELECT id, name, email, department, designation, created_at FROM staff_profiles WHERE id = $1`
	var staff models.StaffProfile
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, fmt.Errorf("get staff profile: %w", err)
	}
	return &staff, nil
}

// ListByDepartment returns staff profiles for a department.
func (r *StaffRepository) ListByDepartment(ctx context.Context, department string) ([]models.StaffProfile, error) {
	const query = `SELECT id, name, email, department, designation, created_at
FROM staff_profiles WHERE department = $1 ORDER BY name ASC`
	var staff []models.StaffProfile
	if err := r.db.SelectContext(ctx, &staff, query, department); err != nil {
		return nil, fmt.Errorf("list staff by department: %w", err)
	}
	return staff, nil
}
