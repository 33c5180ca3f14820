package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/campus-pulse/course-eval-api/internal/models"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
	"github.com/campus-pulse/course-eval-api/pkg/export"
)

type reportReader interface {
	CourseName(ctx context.Context, courseID int64) (string, error)
	TotalSurveys(ctx context.Context, courseID int64) (int, error)
	QuestionAggregates(ctx context.Context, courseID int64) ([]models.QuestionAggregate, error)
	ProfessorAggregates(ctx context.Context, courseID int64) ([]models.ProfessorAggregate, error)
	QuestionText(ctx context.Context, questionID int64) (string, error)
	Distribution(ctx context.Context, courseID, questionID int64) ([]models.AnswerFrequency, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ReportService composes the read-only aggregate views behind the admin
// report pages, with a redis cache in front of the heavier queries.
type ReportService struct {
	repo   reportReader
	cache  reportCache
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	ttl    time.Duration
	clock  func() time.Time
	logger *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(repo reportReader, cache reportCache, ttl time.Duration, clock func() time.Time, logger *zap.Logger) *ReportService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		cache:  cache,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		ttl:    ttl,
		clock:  clock,
		logger: logger,
	}
}

// CourseReport returns the aggregate report of one course. Cache errors never
// fail the request; the report is rebuilt from the store instead.
func (s *ReportService) CourseReport(ctx context.Context, courseID int64) (*models.CourseReport, error) {
	key := fmt.Sprintf("report:course:%d", courseID)
	if s.cache != nil {
		var cached models.CourseReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	courseName, err := s.repo.CourseName(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build course report")
	}
	total, err := s.repo.TotalSurveys(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build course report")
	}
	questions, err := s.repo.QuestionAggregates(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build course report")
	}
	professors, err := s.repo.ProfessorAggregates(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build course report")
	}

	report := &models.CourseReport{
		CourseID:     courseID,
		CourseName:   courseName,
		TotalSurveys: total,
		Questions:    questions,
		Professors:   professors,
		GeneratedAt:  s.clock().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.ttl); err != nil {
			s.logger.Warn("report cache write failed", zap.Int64("course_id", courseID), zap.Error(err))
		}
	}
	return report, nil
}

// QuestionReport returns the answer frequency distribution of one question
// within a course.
func (s *ReportService) QuestionReport(ctx context.Context, courseID, questionID int64) (*models.QuestionDistribution, error) {
	text, err := s.repo.QuestionText(ctx, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build question report")
	}

	frequencies, err := s.repo.Distribution(ctx, courseID, questionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build question report")
	}

	total := 0
	for _, f := range frequencies {
		total += f.Count
	}
	return &models.QuestionDistribution{
		QuestionID:   questionID,
		QuestionText: text,
		Total:        total,
		Frequencies:  frequencies,
	}, nil
}

// ExportCourseReport renders the course report as csv or pdf and returns the
// bytes together with the matching content type.
func (s *ReportService) ExportCourseReport(ctx context.Context, courseID int64, format string) ([]byte, string, error) {
	report, err := s.CourseReport(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	dataset := courseReportDataset(report)
	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export report")
		}
		return payload, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Course evaluation report %d", courseID)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export report")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrBadRequest, "unsupported export format")
	}
}

func courseReportDataset(report *models.CourseReport) export.Dataset {
	headers := []string{"Pregunta", "Seccion", "Respuestas", "Promedio", "Bajas"}
	rows := make([]map[string]string, 0, len(report.Questions))
	for _, q := range report.Questions {
		avg := ""
		if q.Average != nil {
			avg = strconv.FormatFloat(*q.Average, 'f', 2, 64)
		}
		rows = append(rows, map[string]string{
			"Pregunta":   q.QuestionText,
			"Seccion":    q.Section,
			"Respuestas": strconv.Itoa(q.ResponseCount),
			"Promedio":   avg,
			"Bajas":      strconv.Itoa(q.LowCount),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
