package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
	"github.com/odtrack/analytics-api/pkg/export"
	"github.com/odtrack/analytics-api/pkg/jobs"
	"github.com/odtrack/analytics-api/pkg/progress"
)

const (
	exportJobType = "report_export"

	cancelledMessage = "Export cancelled by user"
)

// Renderer turns a document into encoded file bytes.
type Renderer interface {
	Render(doc export.Document) ([]byte, error)
}

type exportHistoryWriter interface {
	Insert(ctx context.Context, result *models.ExportResult) error
}

type artifactStore interface {
	Save(filename string, data []byte) (string, error)
}

type exportMetrics interface {
	ObserveExport(exportType, format, outcome string, duration time.Duration)
}

// exportJob carries everything a worker needs to produce one export.
type exportJob struct {
	Result     models.ExportResult
	Options    models.ExportOptions
	StudentID  string
	StaffID    string
	RequestIDs []string
	Analytics  *models.AnalyticsReportData
}

// exportState tracks an in-flight export so it can be cancelled from
// another request.
type exportState struct {
	cancel    context.CancelFunc
	cancelled bool
}

// ExportService runs report exports asynchronously: requests are accepted
// immediately, rendered by queue workers, and observed over the progress
// hub.
type ExportService struct {
	reports   *ReportService
	history   exportHistoryWriter
	artifacts artifactStore
	hub       *progress.Hub
	metrics   exportMetrics
	renderers map[models.ExportFormat]Renderer
	queue     *jobs.Queue
	validator *validator.Validate
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	states map[string]*exportState
}

// ExportServiceConfig collects the export pipeline's construction knobs.
type ExportServiceConfig struct {
	Workers int
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewExportService constructs the service and its worker queue. Call Start
// before accepting exports.
func NewExportService(reports *ReportService, history exportHistoryWriter, artifacts artifactStore, hub *progress.Hub, metrics exportMetrics, renderers map[models.ExportFormat]Renderer, cfg ExportServiceConfig) *ExportService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	s := &ExportService{
		reports:   reports,
		history:   history,
		artifacts: artifacts,
		hub:       hub,
		metrics:   metrics,
		renderers: renderers,
		validator: validator.New(),
		timeout:   cfg.Timeout,
		logger:    cfg.Logger,
		now:       time.Now,
		states:    make(map[string]*exportState),
	}
	s.queue = jobs.NewQueue("report-exports", s.handle, jobs.QueueConfig{
		Workers: cfg.Workers,
		Logger:  cfg.Logger,
	})
	return s
}

// Start launches the worker pool.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// ExportStudentReport queues a student report export.
func (s *ExportService) ExportStudentReport(ctx context.Context, studentID string, opts models.ExportOptions) (*models.ExportResult, error) {
	return s.start(ctx, exportJob{
		StudentID: studentID,
		Options:   opts,
		Result:    s.newResult(models.ExportTypeStudent, opts.Format),
	})
}

// ExportStaffReport queues a staff report export.
func (s *ExportService) ExportStaffReport(ctx context.Context, staffID string, opts models.ExportOptions) (*models.ExportResult, error) {
	return s.start(ctx, exportJob{
		StaffID: staffID,
		Options: opts,
		Result:  s.newResult(models.ExportTypeStaff, opts.Format),
	})
}

// ExportAnalyticsReport queues an analytics report export over a
// caller-assembled payload.
func (s *ExportService) ExportAnalyticsReport(ctx context.Context, data *models.AnalyticsReportData, opts models.ExportOptions) (*models.ExportResult, error) {
	return s.start(ctx, exportJob{
		Analytics: data,
		Options:   opts,
		Result:    s.newResult(models.ExportTypeAnalytics, opts.Format),
	})
}

// ExportBulkRequests queues an export of explicitly named requests.
func (s *ExportService) ExportBulkRequests(ctx context.Context, requestIDs []string, opts models.ExportOptions) (*models.ExportResult, error) {
	if len(requestIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no request ids supplied")
	}
	return s.start(ctx, exportJob{
		RequestIDs: requestIDs,
		Options:    opts,
		Result:     s.newResult(models.ExportTypeBulk, opts.Format),
	})
}

// Cancel aborts a queued or running export. The export is recorded in
// history as failed with a cancellation message, and no further progress
// updates are published for it.
func (s *ExportService) Cancel(exportID string) error {
	s.mu.Lock()
	state, ok := s.states[exportID]
	if !ok {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, "export not found or already finished")
	}
	if state.cancelled {
		s.mu.Unlock()
		return appErrors.ErrExportCancelled
	}
	state.cancelled = true
	cancel := state.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

func (s *ExportService) newResult(exportType models.ExportType, format models.ExportFormat) models.ExportResult {
	id := uuid.NewString()
	return models.ExportResult{
		ID:        id,
		Type:      exportType,
		Format:    format,
		FileName:  fmt.Sprintf("%s_report_%s.%s", exportType, s.now().UTC().Format("20060102T150405"), format),
		CreatedAt: s.now().UTC(),
	}
}

func (s *ExportService) start(_ context.Context, job exportJob) (*models.ExportResult, error) {
	switch job.Options.Format {
	case models.FormatPDF, models.FormatCSV:
	case models.FormatExcel:
		return nil, appErrors.ErrUnsupportedFormat
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export format")
	}
	if err := s.validator.Struct(job.Options); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	s.mu.Lock()
	s.states[job.Result.ID] = &exportState{}
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.Result.ID, Type: exportJobType, Payload: job}); err != nil {
		s.dropState(job.Result.ID)
		return nil, fmt.Errorf("enqueue export: %w", err)
	}

	s.hub.Publish(models.ExportProgress{
		ExportID:    job.Result.ID,
		Progress:    0,
		CurrentStep: "queued",
		Message:     "Export queued",
		Cancellable: true,
	})
	result := job.Result
	return &result, nil
}

func (s *ExportService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportJob)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	s.process(ctx, payload)
	return nil
}

// process runs one export end to end. Every path through it records exactly
// one history entry and closes the progress stream.
func (s *ExportService) process(parent context.Context, job exportJob) {
	started := s.now()
	exportID := job.Result.ID

	s.mu.Lock()
	state, ok := s.states[exportID]
	if !ok {
		state = &exportState{}
		s.states[exportID] = state
	}
	if state.cancelled {
		s.mu.Unlock()
		s.finishCancelled(job, started)
		return
	}
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	state.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	data, err := s.produce(ctx, job)
	if err != nil {
		s.finishWithError(job, started, err)
		return
	}

	if err := s.persist(ctx, &job, data); err != nil {
		s.finishWithError(job, started, err)
		return
	}

	s.dropState(exportID)
	job.Result.Success = true
	if err := s.history.Insert(context.Background(), &job.Result); err != nil {
		s.logger.Error("record export history", zap.String("export_id", exportID), zap.Error(err))
	}
	s.hub.Publish(models.ExportProgress{
		ExportID:    exportID,
		Progress:    1.0,
		CurrentStep: "completed",
		Message:     job.Result.FileName,
		Cancellable: false,
	})
	s.hub.Complete(exportID)
	if s.metrics != nil {
		s.metrics.ObserveExport(string(job.Result.Type), string(job.Result.Format), "success", s.now().Sub(started))
	}
}

// produce builds the report payload and renders it.
func (s *ExportService) produce(ctx context.Context, job exportJob) ([]byte, error) {
	if err := s.step(ctx, job.Result.ID, 0.1, "preparing", "Gathering report data"); err != nil {
		return nil, err
	}

	doc, err := s.buildDocument(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := s.step(ctx, job.Result.ID, 0.4, "rendering", "Rendering document"); err != nil {
		return nil, err
	}

	renderer, ok := s.renderers[job.Options.Format]
	if !ok {
		return nil, appErrors.ErrUnsupportedFormat
	}
	data, err := renderer.Render(*doc)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Options.Format, err)
	}
	return data, nil
}

// persist saves the rendered bytes and fills in the result's file fields.
func (s *ExportService) persist(ctx context.Context, job *exportJob, data []byte) error {
	if err := s.step(ctx, job.Result.ID, 0.8, "saving", "Saving export file"); err != nil {
		return err
	}
	path, err := s.artifacts.Save(job.Result.FileName, data)
	if err != nil {
		return fmt.Errorf("save export file: %w", err)
	}
	job.Result.FilePath = path
	job.Result.FileSize = int64(len(data))
	return nil
}

func (s *ExportService) buildDocument(ctx context.Context, job exportJob) (*export.Document, error) {
	switch job.Result.Type {
	case models.ExportTypeStudent:
		data, err := s.reports.BuildStudentReport(ctx, job.StudentID, job.Options)
		if err != nil {
			return nil, err
		}
		return s.reports.StudentDocument(data, job.Options), nil
	case models.ExportTypeStaff:
		data, err := s.reports.BuildStaffReport(ctx, job.StaffID, job.Options)
		if err != nil {
			return nil, err
		}
		return s.reports.StaffDocument(data, job.Options), nil
	case models.ExportTypeAnalytics:
		if job.Analytics == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "analytics payload missing")
		}
		return s.reports.AnalyticsDocument(job.Analytics, job.Options), nil
	case models.ExportTypeBulk:
		data, err := s.reports.BuildBulkReport(ctx, job.RequestIDs, job.Options)
		if err != nil {
			return nil, err
		}
		return s.reports.BulkDocument(data, job.Options), nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export type")
	}
}

// step publishes a progress update unless the export was already cancelled
// or timed out.
func (s *ExportService) step(ctx context.Context, exportID string, fraction float64, step, message string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.hub.Publish(models.ExportProgress{
		ExportID:    exportID,
		Progress:    fraction,
		CurrentStep: step,
		Message:     message,
		Cancellable: true,
	})
	return nil
}

func (s *ExportService) finishWithError(job exportJob, started time.Time, err error) {
	if s.wasCancelled(job.Result.ID) && errors.Is(err, context.Canceled) {
		s.finishCancelled(job, started)
		return
	}
	s.dropState(job.Result.ID)

	message := err.Error()
	job.Result.Success = false
	job.Result.ErrorMessage = &message
	if histErr := s.history.Insert(context.Background(), &job.Result); histErr != nil {
		s.logger.Error("record export history", zap.String("export_id", job.Result.ID), zap.Error(histErr))
	}
	s.hub.Publish(models.ExportProgress{
		ExportID:    job.Result.ID,
		Progress:    0,
		CurrentStep: "failed",
		Message:     message,
		Cancellable: false,
	})
	s.hub.Complete(job.Result.ID)
	s.logger.Warn("export failed",
		zap.String("export_id", job.Result.ID),
		zap.String("type", string(job.Result.Type)),
		zap.Error(err))
	if s.metrics != nil {
		s.metrics.ObserveExport(string(job.Result.Type), string(job.Result.Format), "failed", s.now().Sub(started))
	}
}

// finishCancelled records the cancellation outcome. No progress update is
// published after a cancellation; subscribers only see their stream close.
func (s *ExportService) finishCancelled(job exportJob, started time.Time) {
	s.dropState(job.Result.ID)

	message := cancelledMessage
	job.Result.Success = false
	job.Result.ErrorMessage = &message
	if err := s.history.Insert(context.Background(), &job.Result); err != nil {
		s.logger.Error("record export history", zap.String("export_id", job.Result.ID), zap.Error(err))
	}
	s.hub.Complete(job.Result.ID)
	s.logger.Info("export cancelled", zap.String("export_id", job.Result.ID))
	if s.metrics != nil {
		s.metrics.ObserveExport(string(job.Result.Type), string(job.Result.Format), "cancelled", s.now().Sub(started))
	}
}

func (s *ExportService) wasCancelled(exportID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[exportID]
	return ok && state.cancelled
}

func (s *ExportService) dropState(exportID string) {
	s.mu.Lock()
	delete(s.states, exportID)
	s.mu.Unlock()
}
