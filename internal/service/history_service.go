package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
)

type exportHistoryStore interface {
	GetByID(ctx context.Context, id string) (*models.ExportResult, error)
	List(ctx context.Context, filter models.ExportHistoryFilter) ([]models.ExportResult, error)
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.ExportResult, error)
	Delete(ctx context.Context, id string) error
}

type artifactRemover interface {
	Delete(filename string) error
}

// HistoryService serves export history queries and enforces the retention
// policy.
type HistoryService struct {
	store     exportHistoryStore
	artifacts artifactRemover
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewHistoryService constructs the service. A non-positive retention falls
// back to 30 days.
func NewHistoryService(store exportHistoryStore, artifacts artifactRemover, retention time.Duration, logger *zap.Logger) *HistoryService {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		store:     store,
		artifacts: artifacts,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// GetExport returns one history entry.
func (s *HistoryService) GetExport(ctx context.Context, id string) (*models.ExportResult, error) {
	result, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
		}
		return nil, err
	}
	return result, nil
}

// GetExportHistory lists history entries newest first.
func (s *HistoryService) GetExportHistory(ctx context.Context, filter models.ExportHistoryFilter) ([]models.ExportResult, error) {
	results, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []models.ExportResult{}
	}
	return results, nil
}

// GetExportStatistics computes aggregate counters over the full history.
// With no history it returns zeroes, never an error.
func (s *HistoryService) GetExportStatistics(ctx context.Context) (*models.ExportStatistics, error) {
	results, err := s.store.List(ctx, models.ExportHistoryFilter{})
	if err != nil {
		return nil, err
	}

	stats := &models.ExportStatistics{
		ExportsByFormat: make(map[models.ExportFormat]int),
	}
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	weekStart := startOfISOWeek(now)

	var totalSize int64
	for _, result := range results {
		stats.TotalExports++
		if result.Success {
			stats.SuccessfulExports++
			stats.ExportsByFormat[result.Format]++
			totalSize += result.FileSize
		} else {
			stats.FailedExports++
		}
		created := result.CreatedAt.UTC()
		if stats.LastExportAt == nil || created.After(*stats.LastExportAt) {
			at := created
			stats.LastExportAt = &at
		}
		if !created.Before(monthStart) {
			stats.ExportsThisMonth++
		}
		if !created.Before(weekStart) {
			stats.ExportsThisWeek++
		}
	}
	if stats.SuccessfulExports > 0 {
		stats.AverageFileSize = float64(totalSize) / float64(stats.SuccessfulExports)
	}
	return stats, nil
}

// DeleteExport removes a history entry and its artifact. A missing artifact
// does not block entry removal.
func (s *HistoryService) DeleteExport(ctx context.Context, id string) error {
	result, err := s.GetExport(ctx, id)
	if err != nil {
		return err
	}
	if result.FileName != "" {
		if err := s.artifacts.Delete(result.FileName); err != nil {
			s.logger.Warn("delete export artifact",
				zap.String("export_id", id),
				zap.String("file_name", result.FileName),
				zap.Error(err))
		}
	}
	return s.store.Delete(ctx, id)
}

// Cleanup removes entries older than the retention period along with their
// artifacts. Returns the number of entries removed.
func (s *HistoryService) Cleanup(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	expired, err := s.store.ListOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, result := range expired {
		if result.FileName != "" {
			if err := s.artifacts.Delete(result.FileName); err != nil {
				s.logger.Warn("cleanup export artifact",
					zap.String("export_id", result.ID),
					zap.Error(err))
			}
		}
		if err := s.store.Delete(ctx, result.ID); err != nil {
			s.logger.Warn("cleanup export entry", zap.String("export_id", result.ID), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("export history cleanup", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

// StartCleanup runs Cleanup on the given interval until the context ends.
func (s *HistoryService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Cleanup(ctx); err != nil {
					s.logger.Error("scheduled export cleanup", zap.Error(err))
				}
			}
		}
	}()
}

// startOfISOWeek returns midnight on the Monday of the week containing t.
func startOfISOWeek(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(weekday - 1))
}
