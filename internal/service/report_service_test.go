package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtrack/analytics-api/internal/models"
)

type stubReportRequestSource struct {
	byStudent []models.ODRequest
	byStaff   []models.ODRequest
	byIDs     []models.ODRequest
}

func (s *stubReportRequestSource) ListByStudentAndRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ODRequest, error) {
	return s.byStudent, nil
}

func (s *stubReportRequestSource) ListByStaffAndRange(ctx context.Context, staffID string, start, end time.Time) ([]models.ODRequest, error) {
	return s.byStaff, nil
}

func (s *stubReportRequestSource) ListByIDs(ctx context.Context, ids []string) ([]models.ODRequest, error) {
	return s.byIDs, nil
}

func sampleRequests() []models.ODRequest {
	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	return []models.ODRequest{
		{ID: "r1", Status: models.ODStatusApproved, Date: day, Reason: "Symposium", Department: "CSE", StudentName: "Priya", RegisterNumber: "21CS001"},
		{ID: "r2", Status: models.ODStatusApproved, Date: day.AddDate(0, 0, 2), Reason: "Sports meet", Department: "ECE"},
		{ID: "r3", Status: models.ODStatusRejected, Date: day.AddDate(0, 0, 5), Reason: "Symposium", Department: "CSE"},
		{ID: "r4", Status: models.ODStatusPending, Date: day.AddDate(0, 0, 9), Reason: "Workshop", Department: "CSE"},
	}
}

func TestApplyRequestFilterEmptyFilterUnchanged(t *testing.T) {
	requests := sampleRequests()
	filtered := ApplyRequestFilter(requests, models.RequestFilter{})
	assert.Equal(t, requests, filtered)
}

func TestApplyRequestFilterByStatus(t *testing.T) {
	filtered := ApplyRequestFilter(sampleRequests(), models.RequestFilter{
		Statuses: []models.ODStatus{models.ODStatusApproved},
	})
	require.Len(t, filtered, 2)
	for _, req := range filtered {
		assert.Equal(t, models.ODStatusApproved, req.Status)
	}
}

func TestApplyRequestFilterDateBoundsInclusive(t *testing.T) {
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)
	filtered := ApplyRequestFilter(sampleRequests(), models.RequestFilter{
		StartDate: &start,
		EndDate:   &end,
	})
	require.Len(t, filtered, 3)
	assert.Equal(t, "r1", filtered[0].ID)
	assert.Equal(t, "r3", filtered[2].ID)
}

func TestApplyRequestFilterReasonCaseInsensitive(t *testing.T) {
	filtered := ApplyRequestFilter(sampleRequests(), models.RequestFilter{
		ReasonContains: "sympo",
	})
	require.Len(t, filtered, 2)
	assert.Equal(t, "Symposium", filtered[0].Reason)
}

func TestApplyRequestFilterDepartmentNoMatch(t *testing.T) {
	filtered := ApplyRequestFilter(sampleRequests(), models.RequestFilter{
		Departments: []string{"MECH"},
	})
	assert.Empty(t, filtered)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleRequests())

	assert.Equal(t, 4, summary.TotalRequests)
	assert.Equal(t, 2, summary.Approved)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, 1, summary.Pending)

	require.NotEmpty(t, summary.FrequentReasons)
	assert.Equal(t, "Symposium", summary.FrequentReasons[0].Reason)
	assert.Equal(t, 2, summary.FrequentReasons[0].Count)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalRequests)
	assert.Empty(t, summary.FrequentReasons)
}

func reportServiceForTest(src *stubReportRequestSource) *ReportService {
	staff := &stubStaffReader{profile: &models.StaffProfile{ID: "staff-1", Name: "Meena", Department: "CSE"}}
	efficiency := &stubEfficiencyProvider{metrics: models.EfficiencyMetrics{ODApprovalRate: 66.7}}
	svc := NewReportService(src, staff, efficiency, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }
	return svc
}

func exportOpts(format models.ExportFormat) models.ExportOptions {
	return models.ExportOptions{
		Format: format,
		DateRange: models.DateRange{
			Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		IncludeCharts:   true,
		IncludeMetadata: true,
	}
}

func TestBuildStudentReport(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{byStudent: sampleRequests()})

	data, err := svc.BuildStudentReport(context.Background(), "student-1", exportOpts(models.FormatPDF))
	require.NoError(t, err)

	assert.Equal(t, "student-1", data.StudentID)
	assert.Equal(t, "Priya", data.StudentName)
	assert.Equal(t, "21CS001", data.RegisterNumber)
	assert.Len(t, data.Requests, 4)
	assert.Equal(t, 4, data.Summary.TotalRequests)
}

func TestBuildStaffReport(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{byStaff: sampleRequests()})

	data, err := svc.BuildStaffReport(context.Background(), "staff-1", exportOpts(models.FormatCSV))
	require.NoError(t, err)

	assert.Equal(t, "Meena", data.StaffName)
	assert.Equal(t, "CSE", data.Department)
	assert.Len(t, data.Processed, 4)
	require.NotNil(t, data.Efficiency)
	assert.InDelta(t, 66.7, data.Efficiency.ODApprovalRate, 0.001)
}

func TestBuildBulkReportWithApprovedFilter(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{byIDs: sampleRequests()})
	opts := exportOpts(models.FormatPDF)
	opts.Filter = &models.RequestFilter{Statuses: []models.ODStatus{models.ODStatusApproved}}

	data, err := svc.BuildBulkReport(context.Background(), []string{"r1", "r2", "r3", "r4"}, opts)
	require.NoError(t, err)

	assert.Len(t, data.RequestIDs, 4)
	assert.Len(t, data.Requests, 2)
	assert.Equal(t, 2, data.Summary.TotalRequests)
	assert.Equal(t, 2, data.Summary.Approved)
}

func TestBuildBulkReportRequiresIDs(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{})

	_, err := svc.BuildBulkReport(context.Background(), nil, exportOpts(models.FormatPDF))
	require.Error(t, err)
}

func TestStudentDocument(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{byStudent: sampleRequests()})
	opts := exportOpts(models.FormatPDF)

	data, err := svc.BuildStudentReport(context.Background(), "student-1", opts)
	require.NoError(t, err)

	doc := svc.StudentDocument(data, opts)
	assert.Equal(t, "OD Report - Priya", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Len(t, doc.Sections[0].Rows, 4)
	require.NotEmpty(t, doc.Metadata)
	require.NotNil(t, doc.PieChart)
	require.NotNil(t, doc.BarChart)
}

func TestStudentDocumentCustomTitleNoExtras(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{byStudent: sampleRequests()})
	opts := exportOpts(models.FormatPDF)
	opts.IncludeCharts = false
	opts.IncludeMetadata = false
	opts.CustomTitle = "Mid Semester OD Summary"

	data, err := svc.BuildStudentReport(context.Background(), "student-1", opts)
	require.NoError(t, err)

	doc := svc.StudentDocument(data, opts)
	assert.Equal(t, "Mid Semester OD Summary", doc.Title)
	assert.Empty(t, doc.Metadata)
	assert.Nil(t, doc.PieChart)
	assert.Nil(t, doc.BarChart)
}

func TestAnalyticsDocument(t *testing.T) {
	svc := reportServiceForTest(&stubReportRequestSource{})
	opts := exportOpts(models.FormatPDF)

	data := &models.AnalyticsReportData{
		Title:         "Department Analytics",
		TotalRequests: 10,
		StatusDistribution: map[models.ODStatus]int{
			models.ODStatusApproved: 6,
			models.ODStatusRejected: 3,
			models.ODStatusPending:  1,
		},
		Workload: &models.WorkloadAnalytics{
			TotalWorkingHours:  74.8,
			WeeklyAverageHours: 37.4,
			Trend:              models.TrendStable,
			HoursByActivity: map[models.ActivityType]float64{
				models.ActivityTeaching: 36,
				models.ActivityMeetings: 6,
			},
		},
	}

	doc := svc.AnalyticsDocument(data, opts)
	assert.Equal(t, "Department Analytics", doc.Title)
	require.NotEmpty(t, doc.Sections)
	require.NotNil(t, doc.PieChart)
	assert.Len(t, doc.PieChart.Points, 2)
}
