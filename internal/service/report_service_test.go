package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-pulse/course-eval-api/internal/models"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
)

type reportReaderStub struct {
	courseName  string
	total       int
	questions   []models.QuestionAggregate
	professors  []models.ProfessorAggregate
	text        string
	frequencies []models.AnswerFrequency
	nameErr     error
	textErr     error
	totalCalls  int
}

func (s *reportReaderStub) CourseName(ctx context.Context, courseID int64) (string, error) {
	if s.nameErr != nil {
		return "", s.nameErr
	}
	return s.courseName, nil
}

func (s *reportReaderStub) TotalSurveys(ctx context.Context, courseID int64) (int, error) {
	s.totalCalls++
	return s.total, nil
}

func (s *reportReaderStub) QuestionAggregates(ctx context.Context, courseID int64) ([]models.QuestionAggregate, error) {
	return s.questions, nil
}

func (s *reportReaderStub) ProfessorAggregates(ctx context.Context, courseID int64) ([]models.ProfessorAggregate, error) {
	return s.professors, nil
}

func (s *reportReaderStub) QuestionText(ctx context.Context, questionID int64) (string, error) {
	if s.textErr != nil {
		return "", s.textErr
	}
	return s.text, nil
}

func (s *reportReaderStub) Distribution(ctx context.Context, courseID, questionID int64) ([]models.AnswerFrequency, error) {
	return s.frequencies, nil
}

type cacheStub struct {
	values  map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: make(map[string][]byte)}
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	s.setKeys = append(s.setKeys, key)
	return nil
}

func avg(v float64) *float64 {
	return &v
}

func testReportReader() *reportReaderStub {
	return &reportReaderStub{
		courseName: "Algoritmos",
		total:      12,
		questions: []models.QuestionAggregate{
			{QuestionID: 1, QuestionText: "Course pace", Section: "curso", ResponseCount: 12, Average: avg(7.25), LowCount: 2},
		},
		professors: []models.ProfessorAggregate{
			{ProfessorID: 10, ProfessorName: "Ana Gomez", ResponseCount: 12, Average: avg(8.1)},
		},
	}
}

func TestReportServiceCourseReport(t *testing.T) {
	reader := testReportReader()
	cache := newCacheStub()
	svc := NewReportService(reader, cache, time.Minute, fixedClock(submitNow), zap.NewNop())

	report, err := svc.CourseReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Algoritmos", report.CourseName)
	assert.Equal(t, 12, report.TotalSurveys)
	require.Len(t, report.Questions, 1)
	assert.Equal(t, []string{"report:course:7"}, cache.setKeys)

	// Second call is served from the cache.
	cached, err := svc.CourseReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, report.CourseName, cached.CourseName)
	assert.Equal(t, 1, reader.totalCalls)
}

func TestReportServiceCourseReportUnknownCourse(t *testing.T) {
	reader := testReportReader()
	reader.nameErr = sql.ErrNoRows
	svc := NewReportService(reader, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.CourseReport(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCourseReportCacheWriteFailureIsTolerated(t *testing.T) {
	reader := testReportReader()
	cache := newCacheStub()
	cache.setErr = assert.AnError
	svc := NewReportService(reader, cache, time.Minute, nil, zap.NewNop())

	report, err := svc.CourseReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Algoritmos", report.CourseName)
}

func TestReportServiceQuestionReport(t *testing.T) {
	reader := testReportReader()
	reader.text = "Course pace"
	reader.frequencies = []models.AnswerFrequency{
		{Value: "8", Count: 7},
		{Value: "9", Count: 5},
	}
	svc := NewReportService(reader, nil, time.Minute, nil, zap.NewNop())

	report, err := svc.QuestionReport(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "Course pace", report.QuestionText)
	assert.Equal(t, 12, report.Total)
	require.Len(t, report.Frequencies, 2)
}

func TestReportServiceQuestionReportUnknownQuestion(t *testing.T) {
	reader := testReportReader()
	reader.textErr = sql.ErrNoRows
	svc := NewReportService(reader, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.QuestionReport(context.Background(), 7, 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceExportCourseReportCSV(t *testing.T) {
	svc := NewReportService(testReportReader(), nil, time.Minute, nil, zap.NewNop())

	payload, contentType, err := svc.ExportCourseReport(context.Background(), 7, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	content := string(payload)
	assert.True(t, strings.HasPrefix(content, "Pregunta,Seccion,Respuestas,Promedio,Bajas"))
	assert.Contains(t, content, "Course pace,curso,12,7.25,2")
}

func TestReportServiceExportCourseReportPDF(t *testing.T) {
	svc := NewReportService(testReportReader(), nil, time.Minute, nil, zap.NewNop())

	payload, contentType, err := svc.ExportCourseReport(context.Background(), 7, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.NotEmpty(t, payload)
}

func TestReportServiceExportCourseReportUnsupportedFormat(t *testing.T) {
	svc := NewReportService(testReportReader(), nil, time.Minute, nil, zap.NewNop())

	_, _, err := svc.ExportCourseReport(context.Background(), 7, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErrors.FromError(err).Code)
}
