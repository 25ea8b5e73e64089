package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
)

type stubHistoryStore struct {
	entries []models.ExportResult
	deleted []string
}

func (s *stubHistoryStore) GetByID(ctx context.Context, id string) (*models.ExportResult, error) {
	for _, entry := range s.entries {
		if entry.ID == id {
			out := entry
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubHistoryStore) List(ctx context.Context, filter models.ExportHistoryFilter) ([]models.ExportResult, error) {
	return s.entries, nil
}

func (s *stubHistoryStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.ExportResult, error) {
	var expired []models.ExportResult
	for _, entry := range s.entries {
		if entry.CreatedAt.Before(cutoff) {
			expired = append(expired, entry)
		}
	}
	return expired, nil
}

func (s *stubHistoryStore) Delete(ctx context.Context, id string) error {
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return errors.New("no row")
}

type flakyArtifacts struct {
	deleted []string
	err     error
}

func (f *flakyArtifacts) Delete(filename string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, filename)
	return nil
}

// Wednesday 2026-08-26: the ISO week starts Monday 2026-08-24 and the
// calendar month on 2026-08-01.
var historyNow = time.Date(2026, 8, 26, 15, 0, 0, 0, time.UTC)

func historyEntries() []models.ExportResult {
	return []models.ExportResult{
		{
			ID: "e1", FileName: "a.pdf", Format: models.FormatPDF,
			FileSize: 100, Success: true,
			CreatedAt: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: "e2", FileName: "b.csv", Format: models.FormatCSV,
			FileSize: 300, Success: true,
			CreatedAt: time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: "e3", FileName: "c.pdf", Format: models.FormatPDF,
			Success:   false,
			CreatedAt: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func historyServiceForTest(store *stubHistoryStore, artifacts *flakyArtifacts) *HistoryService {
	svc := NewHistoryService(store, artifacts, 0, nil)
	svc.now = func() time.Time { return historyNow }
	return svc
}

func TestGetExportStatistics(t *testing.T) {
	svc := historyServiceForTest(&stubHistoryStore{entries: historyEntries()}, &flakyArtifacts{})

	stats, err := svc.GetExportStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalExports)
	assert.Equal(t, 2, stats.SuccessfulExports)
	assert.Equal(t, 1, stats.FailedExports)
	assert.Equal(t, 1, stats.ExportsByFormat[models.FormatPDF])
	assert.Equal(t, 1, stats.ExportsByFormat[models.FormatCSV])
	assert.InDelta(t, 200.0, stats.AverageFileSize, 0.001)

	require.NotNil(t, stats.LastExportAt)
	assert.Equal(t, time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC), *stats.LastExportAt)

	assert.Equal(t, 2, stats.ExportsThisMonth)
	assert.Equal(t, 1, stats.ExportsThisWeek)
}

func TestGetExportStatisticsEmpty(t *testing.T) {
	svc := historyServiceForTest(&stubHistoryStore{}, &flakyArtifacts{})

	stats, err := svc.GetExportStatistics(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalExports)
	assert.Zero(t, stats.AverageFileSize)
	assert.Nil(t, stats.LastExportAt)
	assert.NotNil(t, stats.ExportsByFormat)
}

func TestDeleteExport(t *testing.T) {
	store := &stubHistoryStore{entries: historyEntries()}
	artifacts := &flakyArtifacts{}
	svc := historyServiceForTest(store, artifacts)

	require.NoError(t, svc.DeleteExport(context.Background(), "e1"))
	assert.Equal(t, []string{"a.pdf"}, artifacts.deleted)
	assert.Equal(t, []string{"e1"}, store.deleted)
}

func TestDeleteExportArtifactErrorIgnored(t *testing.T) {
	store := &stubHistoryStore{entries: historyEntries()}
	artifacts := &flakyArtifacts{err: errors.New("gone")}
	svc := historyServiceForTest(store, artifacts)

	require.NoError(t, svc.DeleteExport(context.Background(), "e1"))
	assert.Contains(t, store.deleted, "e1")
}

func TestDeleteExportNotFound(t *testing.T) {
	svc := historyServiceForTest(&stubHistoryStore{}, &flakyArtifacts{})

	err := svc.DeleteExport(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCleanup(t *testing.T) {
	store := &stubHistoryStore{entries: historyEntries()}
	artifacts := &flakyArtifacts{}
	// Retain two weeks: only e1 and e2 are younger than... e2 (Aug 10) is
	// older than the Aug 12 cutoff, so e2 and e3 expire.
	svc := NewHistoryService(store, artifacts, 14*24*time.Hour, nil)
	svc.now = func() time.Time { return historyNow }

	removed, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []string{"e2", "e3"}, store.deleted)
	assert.ElementsMatch(t, []string{"b.csv", "c.pdf"}, artifacts.deleted)
}

func TestCleanupSwallowsArtifactErrors(t *testing.T) {
	store := &stubHistoryStore{entries: historyEntries()}
	svc := NewHistoryService(store, &flakyArtifacts{err: errors.New("io")}, 14*24*time.Hour, nil)
	svc.now = func() time.Time { return historyNow }

	removed, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}
