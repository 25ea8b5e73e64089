package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/odtrack/analytics-api/internal/models"
)

func newODRequestRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func odRequestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "register_number", "student_name", "staff_id", "department",
		"date", "periods", "reason", "attachment_url", "status", "approved_by_id",
		"approved_at", "rejection_reason", "created_at", "updated_at",
	})
}

func TestODRequestRepositoryListByStaffAndRange(t *testing.T) {
	db, mock, cleanup := newODRequestRepoMock(t)
	defer cleanup()

	repo := NewODRequestRepository(db)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	created := time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)

	rows := odRequestRows().AddRow(
		"req-1", "stu-1", "21CS001", "Priya", "staff-1", "CSE",
		created, "{1,2,3}", "Symposium", nil, "approved", "staff-1",
		created.Add(4*time.Hour), nil, created, nil,
	)
	mock.ExpectQuery("SELECT .* FROM od_requests").
		WithArgs("staff-1", start, end).
		WillReturnRows(rows)

	requests, err := repo.ListByStaffAndRange(context.Background(), "staff-1", start, end)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.Equal(t, "req-1", requests[0].ID)
	require.Equal(t, models.ODStatusApproved, requests[0].Status)
	require.Equal(t, []int64{1, 2, 3}, []int64(requests[0].Periods))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestODRequestRepositoryListByStudentAndRange(t *testing.T) {
	db, mock, cleanup := newODRequestRepoMock(t)
	defer cleanup()

	repo := NewODRequestRepository(db)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	mock.ExpectQuery("SELECT .* FROM od_requests").
		WithArgs("stu-1", start, end).
		WillReturnRows(odRequestRows())

	requests, err := repo.ListByStudentAndRange(context.Background(), "stu-1", start, end)
	require.NoError(t, err)
	require.Empty(t, requests)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestODRequestRepositoryListByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newODRequestRepoMock(t)
	defer cleanup()

	repo := NewODRequestRepository(db)
	requests, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, requests)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestODRequestRepositoryCount(t *testing.T) {
	db, mock, cleanup := newODRequestRepoMock(t)
	defer cleanup()

	repo := NewODRequestRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM od_requests")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestODRequestRepositoryStatusCounts(t *testing.T) {
	db, mock, cleanup := newODRequestRepoMock(t)
	defer cleanup()

	repo := NewODRequestRepository(db)
	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("approved", 8).
		AddRow("pending", 3)
	mock.ExpectQuery("SELECT status, COUNT").WillReturnRows(rows)

	counts, err := repo.StatusCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 8, counts[models.ODStatusApproved])
	require.Equal(t, 3, counts[models.ODStatusPending])
	require.Zero(t, counts[models.ODStatusRejected])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestODRequestRepositoryTopStudents(t *testing.T) {
	db, mock, cleanup := newODRequestRepoMock(t)
	defer cleanup()

	repo := NewODRequestRepository(db)
	rows := sqlmock.NewRows([]string{"register_number", "student_name", "count"}).
		AddRow("21CS001", "Priya", 6).
		AddRow("21EC014", "Arun", 4)
	mock.ExpectQuery("SELECT register_number, student_name").
		WithArgs(5).
		WillReturnRows(rows)

	students, err := repo.TopStudents(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, students, 2)
	require.Equal(t, "21CS001", students[0].RegisterNumber)
	require.Equal(t, 6, students[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}
