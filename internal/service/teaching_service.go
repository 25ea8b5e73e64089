package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/odtrack/analytics-api/internal/models"
)

// standardWeeklyPeriods is the institution's full teaching load used for
// utilization scoring.
const standardWeeklyPeriods = 30

type enrollmentReader interface {
	StudentCounts(ctx context.Context, classNames []string) (map[string]int, error)
}

// TeachingService derives teaching-load breakdowns from workload allocations
// and real enrollment counts.
type TeachingService struct {
	repo       workloadStore
	enrollment enrollmentReader
	logger     *zap.Logger
}

// NewTeachingService constructs the service.
func NewTeachingService(repo workloadStore, enrollment enrollmentReader, logger *zap.Logger) *TeachingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeachingService{repo: repo, enrollment: enrollment, logger: logger}
}

// GetTeachingAnalytics builds the teaching breakdown for a staff member's
// current semester. A staff member without an allocation yields an empty
// breakdown.
func (s *TeachingService) GetTeachingAnalytics(ctx context.Context, staffID string) (*models.TeachingAnalytics, error) {
	workload, err := s.repo.GetCurrent(ctx, staffID)
	if err != nil {
		return nil, err
	}
	analytics := &models.TeachingAnalytics{
		StaffID:           staffID,
		GradeDistribution: map[string]int{},
	}
	if workload == nil {
		return analytics, nil
	}
	analytics.Semester = workload.Semester

	totalPeriods := workload.TotalPeriodsPerWeek()
	analytics.TotalPeriods = totalPeriods

	subjectCodes := make([]string, 0, len(workload.PeriodsPerSubject))
	for code := range workload.PeriodsPerSubject {
		subjectCodes = append(subjectCodes, code)
	}
	sort.Strings(subjectCodes)
	for _, code := range subjectCodes {
		periods := workload.PeriodsPerSubject[code]
		share := 0.0
		if totalPeriods > 0 {
			share = float64(periods) / float64(totalPeriods)
		}
		analytics.Subjects = append(analytics.Subjects, models.SubjectAllocation{
			SubjectCode:    code,
			PeriodsPerWeek: periods,
			LoadShare:      share,
		})
	}

	classNames := make([]string, 0)
	classGrades := make(map[string]string)
	grades := make([]string, 0, len(workload.ClassesByGrade))
	for grade := range workload.ClassesByGrade {
		grades = append(grades, grade)
	}
	sort.Strings(grades)
	for _, grade := range grades {
		classes := workload.ClassesByGrade[grade]
		analytics.GradeDistribution[grade] = len(classes)
		for _, className := range classes {
			classNames = append(classNames, className)
			classGrades[className] = grade
		}
	}

	counts := map[string]int{}
	if s.enrollment != nil && len(classNames) > 0 {
		counts, err = s.enrollment.StudentCounts(ctx, classNames)
		if err != nil {
			return nil, err
		}
	}
	for _, className := range classNames {
		studentCount := counts[className]
		analytics.Classes = append(analytics.Classes, models.ClassAllocation{
			ClassName:    className,
			Grade:        classGrades[className],
			StudentCount: studentCount,
		})
		analytics.TotalStudents += studentCount
	}
	analytics.TotalClasses = len(classNames)

	analytics.Efficiency = teachingEfficiency(analytics)
	return analytics, nil
}

func teachingEfficiency(analytics *models.TeachingAnalytics) models.TeachingEfficiencyScore {
	score := models.TeachingEfficiencyScore{
		GradeSpread: len(analytics.GradeDistribution),
	}

	utilization := float64(analytics.TotalPeriods) / standardWeeklyPeriods
	if utilization > 1 {
		utilization = 1
	}
	score.UtilizationRate = utilization

	if analytics.TotalPeriods > 0 {
		score.StudentsPerPeriod = float64(analytics.TotalStudents) / float64(analytics.TotalPeriods)
	}

	// Complement of the Herfindahl concentration over subject load shares:
	// 0 for a single subject, approaching 1 as load spreads evenly.
	var concentration float64
	for _, subject := range analytics.Subjects {
		concentration += subject.LoadShare * subject.LoadShare
	}
	if len(analytics.Subjects) > 0 {
		score.SubjectDiversity = 1 - concentration
	}

	return score
}
