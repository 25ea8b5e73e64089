package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
	appErrors "github.com/odtrack/analytics-api/pkg/errors"
	"github.com/odtrack/analytics-api/pkg/export"
)

const frequentReasonLimit = 5

type reportRequestSource interface {
	ListByStudentAndRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ODRequest, error)
	ListByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]models.ODRequest, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.ODRequest, error)
}

// ReportService assembles the typed data payloads behind report exports and
// converts them into renderer-neutral documents.
type ReportService struct {
	requests   reportRequestSource
	staff      staffReader
	efficiency efficiencyMetricsProvider
	logger     *zap.Logger
	now        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(requests reportRequestSource, staff staffReader, efficiency efficiencyMetricsProvider, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		requests:   requests,
		staff:      staff,
		efficiency: efficiency,
		logger:     logger,
		now:        time.Now,
	}
}

// ApplyRequestFilter returns the requests matching the filter. An empty
// filter leaves the set unchanged. Date bounds are inclusive.
func ApplyRequestFilter(requests []models.ODRequest, filter models.RequestFilter) []models.ODRequest {
	if filter.Empty() {
		return requests
	}
	matched := make([]models.ODRequest, 0, len(requests))
	for _, req := range requests {
		if !matchesFilter(req, filter) {
			continue
		}
		matched = append(matched, req)
	}
	return matched
}

func matchesFilter(req models.ODRequest, filter models.RequestFilter) bool {
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, req.Status) {
		return false
	}
	if filter.StartDate != nil && req.Date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && req.Date.After(*filter.EndDate) {
		return false
	}
	if filter.ReasonContains != "" &&
		!strings.Contains(strings.ToLower(req.Reason), strings.ToLower(filter.ReasonContains)) {
		return false
	}
	if len(filter.Departments) > 0 && !containsString(filter.Departments, req.Department) {
		return false
	}
	return true
}

func containsStatus(set []models.ODStatus, status models.ODStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func containsString(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// Summarize derives counts and the most frequent reasons from a request set.
func Summarize(requests []models.ODRequest) models.RequestSummary {
	summary := models.RequestSummary{
		TotalRequests:   len(requests),
		FrequentReasons: []models.ReasonCount{},
	}
	reasons := make(map[string]int)
	for _, req := range requests {
		switch req.Status {
		case models.ODStatusApproved:
			summary.Approved++
		case models.ODStatusRejected:
			summary.Rejected++
		case models.ODStatusPending:
			summary.Pending++
		}
		if req.Reason != "" {
			reasons[req.Reason]++
		}
	}
	counts := make([]models.ReasonCount, 0, len(reasons))
	for reason, count := range reasons {
		counts = append(counts, models.ReasonCount{Reason: reason, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Reason < counts[j].Reason
	})
	if len(counts) > frequentReasonLimit {
		counts = counts[:frequentReasonLimit]
	}
	summary.FrequentReasons = counts
	return summary
}

// BuildStudentReport gathers and summarizes a student's requests for the
// export period. A student with no requests yields an empty report.
func (s *ReportService) BuildStudentReport(ctx context.Context, studentID string, opts models.ExportOptions) (*models.StudentReportData, error) {
	requests, err := s.requests.ListByStudentAndRange(ctx, studentID, opts.DateRange.Start, opts.DateRange.End)
	if err != nil {
		return nil, err
	}
	if opts.Filter != nil {
		requests = ApplyRequestFilter(requests, *opts.Filter)
	}
	data := &models.StudentReportData{
		StudentID: studentID,
		Period:    opts.DateRange,
		Requests:  requests,
		Summary:   Summarize(requests),
	}
	if len(requests) > 0 {
		data.StudentName = requests[0].StudentName
		data.RegisterNumber = requests[0].RegisterNumber
	}
	return data, nil
}

// BuildStaffReport gathers the requests a staff member processed in the
// export period, with their efficiency metrics attached.
func (s *ReportService) BuildStaffReport(ctx context.Context, staffID string, opts models.ExportOptions) (*models.StaffReportData, error) {
	profile, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, err
	}
	requests, err := s.requests.ListByStaffAndRange(ctx, staffID, opts.DateRange.Start, opts.DateRange.End)
	if err != nil {
		return nil, err
	}
	if opts.Filter != nil {
		requests = ApplyRequestFilter(requests, *opts.Filter)
	}
	data := &models.StaffReportData{
		StaffID:    staffID,
		StaffName:  profile.Name,
		Department: profile.Department,
		Period:     opts.DateRange,
		Processed:  requests,
		Summary:    Summarize(requests),
	}
	metrics, err := s.efficiency.GetEfficiencyMetrics(ctx, staffID, opts.DateRange)
	if err != nil {
		s.logger.Warn("staff report efficiency metrics unavailable",
			zap.String("staff_id", staffID), zap.Error(err))
	} else {
		data.Efficiency = metrics
	}
	return data, nil
}

// BuildBulkReport gathers the named requests and summarizes whatever the
// filter leaves.
func (s *ReportService) BuildBulkReport(ctx context.Context, requestIDs []string, opts models.ExportOptions) (*models.BulkReportData, error) {
	if len(requestIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no request ids supplied")
	}
	requests, err := s.requests.ListByIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	if opts.Filter != nil {
		requests = ApplyRequestFilter(requests, *opts.Filter)
	}
	return &models.BulkReportData{
		RequestIDs: requestIDs,
		Requests:   requests,
		Summary:    Summarize(requests),
	}, nil
}

// StudentDocument converts a student report payload into a document.
func (s *ReportService) StudentDocument(data *models.StudentReportData, opts models.ExportOptions) *export.Document {
	doc := &export.Document{
		Title:       documentTitle(opts, fmt.Sprintf("OD Report - %s", fallback(data.StudentName, data.StudentID))),
		GeneratedAt: s.now().UTC(),
		Summary:     summaryCards(data.Summary),
		Sections:    []export.Section{requestSection("OD Requests", data.Requests)},
	}
	if opts.IncludeMetadata {
		doc.Metadata = []export.Field{
			{Key: "Student", Value: fallback(data.StudentName, data.StudentID)},
			{Key: "Register Number", Value: data.RegisterNumber},
			{Key: "Period", Value: formatPeriod(data.Period)},
		}
	}
	if opts.IncludeCharts {
		attachRequestCharts(doc, data.Summary)
	}
	return doc
}

// StaffDocument converts a staff report payload into a document.
func (s *ReportService) StaffDocument(data *models.StaffReportData, opts models.ExportOptions) *export.Document {
	doc := &export.Document{
		Title:       documentTitle(opts, fmt.Sprintf("Staff OD Report - %s", fallback(data.StaffName, data.StaffID))),
		GeneratedAt: s.now().UTC(),
		Summary:     summaryCards(data.Summary),
		Sections:    []export.Section{requestSection("Processed Requests", data.Processed)},
	}
	if data.Efficiency != nil {
		doc.Summary = append(doc.Summary,
			export.Card{Label: "Approval Rate", Value: fmt.Sprintf("%.1f%%", data.Efficiency.ODApprovalRate)},
			export.Card{Label: "Avg Processing (h)", Value: fmt.Sprintf("%.1f", data.Efficiency.AverageProcessingHours)},
		)
	}
	if opts.IncludeMetadata {
		doc.Metadata = []export.Field{
			{Key: "Staff", Value: fallback(data.StaffName, data.StaffID)},
			{Key: "Department", Value: data.Department},
			{Key: "Period", Value: formatPeriod(data.Period)},
		}
	}
	if opts.IncludeCharts {
		attachRequestCharts(doc, data.Summary)
	}
	return doc
}

// AnalyticsDocument converts a caller-supplied analytics payload into a
// document.
func (s *ReportService) AnalyticsDocument(data *models.AnalyticsReportData, opts models.ExportOptions) *export.Document {
	doc := &export.Document{
		Title:       documentTitle(opts, fallback(data.Title, "Analytics Report")),
		GeneratedAt: s.now().UTC(),
		Summary: []export.Card{
			{Label: "Total Requests", Value: strconv.Itoa(data.TotalRequests)},
			{Label: "Approved", Value: strconv.Itoa(data.StatusDistribution[models.ODStatusApproved])},
			{Label: "Rejected", Value: strconv.Itoa(data.StatusDistribution[models.ODStatusRejected])},
			{Label: "Pending", Value: strconv.Itoa(data.StatusDistribution[models.ODStatusPending])},
		},
	}
	if opts.IncludeMetadata {
		doc.Metadata = []export.Field{{Key: "Period", Value: formatPeriod(data.Period)}}
	}
	if len(data.TopStudents) > 0 {
		section := export.Section{
			Title:   "Top Requesters",
			Headers: []string{"Register Number", "Student", "Requests"},
		}
		for _, student := range data.TopStudents {
			section.Rows = append(section.Rows, []string{student.RegisterNumber, student.StudentName, strconv.Itoa(student.Count)})
		}
		doc.Sections = append(doc.Sections, section)
	}
	if data.Workload != nil {
		section := export.Section{
			Title:   "Workload",
			Headers: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Total Working Hours", fmt.Sprintf("%.1f", data.Workload.TotalWorkingHours)},
				{"Weekly Average Hours", fmt.Sprintf("%.1f", data.Workload.WeeklyAverageHours)},
				{"Trend", string(data.Workload.Trend)},
			},
		}
		doc.Sections = append(doc.Sections, section)
		if opts.IncludeCharts {
			chart := &export.Chart{Title: "Activity Distribution"}
			for _, activity := range models.OrderedActivityTypes() {
				if hours, ok := data.Workload.HoursByActivity[activity]; ok {
					chart.Points = append(chart.Points, export.Point{Label: string(activity), Value: hours})
				}
			}
			doc.PieChart = chart
		}
	}
	if data.Efficiency != nil {
		section := export.Section{
			Title:   "Efficiency",
			Headers: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Approval Rate", fmt.Sprintf("%.1f%%", data.Efficiency.ODApprovalRate)},
				{"Avg Processing Hours", fmt.Sprintf("%.1f", data.Efficiency.AverageProcessingHours)},
				{"Response Time Hours", fmt.Sprintf("%.1f", data.Efficiency.ResponseTimeHours)},
			},
		}
		doc.Sections = append(doc.Sections, section)
	}
	if len(doc.Sections) == 0 {
		doc.Sections = append(doc.Sections, export.Section{
			Title:   "Status Distribution",
			Headers: []string{"Status", "Count"},
			Rows: [][]string{
				{string(models.ODStatusApproved), strconv.Itoa(data.StatusDistribution[models.ODStatusApproved])},
				{string(models.ODStatusRejected), strconv.Itoa(data.StatusDistribution[models.ODStatusRejected])},
				{string(models.ODStatusPending), strconv.Itoa(data.StatusDistribution[models.ODStatusPending])},
			},
		})
	}
	return doc
}

// BulkDocument converts a bulk report payload into a document.
func (s *ReportService) BulkDocument(data *models.BulkReportData, opts models.ExportOptions) *export.Document {
	doc := &export.Document{
		Title:       documentTitle(opts, "Bulk OD Request Report"),
		GeneratedAt: s.now().UTC(),
		Summary:     summaryCards(data.Summary),
		Sections:    []export.Section{requestSection("Requests", data.Requests)},
	}
	if opts.IncludeMetadata {
		doc.Metadata = []export.Field{
			{Key: "Requested IDs", Value: strconv.Itoa(len(data.RequestIDs))},
			{Key: "Included Requests", Value: strconv.Itoa(len(data.Requests))},
		}
	}
	if opts.IncludeCharts {
		attachRequestCharts(doc, data.Summary)
	}
	return doc
}

func documentTitle(opts models.ExportOptions, def string) string {
	if opts.CustomTitle != "" {
		return opts.CustomTitle
	}
	return def
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func formatPeriod(period models.DateRange) string {
	return fmt.Sprintf("%s to %s", period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
}

func summaryCards(summary models.RequestSummary) []export.Card {
	return []export.Card{
		{Label: "Total Requests", Value: strconv.Itoa(summary.TotalRequests)},
		{Label: "Approved", Value: strconv.Itoa(summary.Approved)},
		{Label: "Rejected", Value: strconv.Itoa(summary.Rejected)},
		{Label: "Pending", Value: strconv.Itoa(summary.Pending)},
	}
}

func requestSection(title string, requests []models.ODRequest) export.Section {
	section := export.Section{
		Title:   title,
		Headers: []string{"Date", "Register Number", "Student", "Periods", "Reason", "Status"},
		Rows:    make([][]string, 0, len(requests)),
	}
	for _, req := range requests {
		section.Rows = append(section.Rows, []string{
			req.Date.Format("2006-01-02"),
			req.RegisterNumber,
			req.StudentName,
			formatRequestPeriods(req.Periods),
			req.Reason,
			string(req.Status),
		})
	}
	return section
}

func formatRequestPeriods(periods []int64) string {
	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		parts = append(parts, strconv.FormatInt(p, 10))
	}
	return strings.Join(parts, " ")
}

func attachRequestCharts(doc *export.Document, summary models.RequestSummary) {
	doc.PieChart = &export.Chart{
		Title: "Status Distribution",
		Points: []export.Point{
			{Label: "Approved", Value: float64(summary.Approved)},
			{Label: "Rejected", Value: float64(summary.Rejected)},
			{Label: "Pending", Value: float64(summary.Pending)},
		},
	}
	if len(summary.FrequentReasons) > 0 {
		chart := &export.Chart{Title: "Frequent Reasons"}
		for _, rc := range summary.FrequentReasons {
			chart.Points = append(chart.Points, export.Point{Label: rc.Reason, Value: float64(rc.Count)})
		}
		doc.BarChart = chart
	}
}
