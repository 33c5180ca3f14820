package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-pulse/course-eval-api/internal/models"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
)

type formReaderStub struct {
	form *models.Form
	err  error
}

func (s formReaderStub) FindByID(ctx context.Context, id int64) (*models.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

type catalogStub struct {
	questions map[int64]models.Question
	err       error
}

func (s catalogStub) ListByForm(ctx context.Context, formID int64) (map[int64]models.Question, error) {
	return s.questions, s.err
}

type rosterStub struct {
	ids []int64
	err error
}

func (s rosterStub) IDsByForm(ctx context.Context, formID int64) ([]int64, error) {
	return s.ids, s.err
}

type surveyStoreStub struct {
	receipt *models.Receipt
	err     error
	calls   int
}

func (s *surveyStoreStub) Insert(ctx context.Context, sub models.Submission, form *models.Form, questions map[int64]models.Question, fp models.Fingerprint, now time.Time) (*models.Receipt, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

type guardStub struct {
	allowed bool
	err     error
}

func (s guardStub) Allow(ctx context.Context, fp models.Fingerprint) (bool, error) {
	return s.allowed, s.err
}

type metricsStub struct {
	outcomes []string
}

func (s *metricsStub) RecordSubmission(outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

var submitNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func openForm() *models.Form {
	return &models.Form{
		ID:           1,
		CourseID:     7,
		Active:       true,
		CourseActive: true,
		StartDate:    submitNow.Add(-48 * time.Hour),
		EndDate:      submitNow.Add(48 * time.Hour),
	}
}

type invalidatorStub struct {
	patterns []string
	err      error
}

func (s *invalidatorStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return s.err
}

func newTestSubmissionService(forms formReaderStub, store *surveyStoreStub, guard guardStub, metrics *metricsStub) *SubmissionService {
	catalog := catalogStub{questions: testCatalog()}
	roster := rosterStub{ids: []int64{10}}
	return NewSubmissionService(forms, catalog, roster, store, guard, metrics, nil, testLimits, fixedClock(submitNow), zap.NewNop())
}

func TestSubmissionServiceAcceptsValidSubmission(t *testing.T) {
	store := &surveyStoreStub{receipt: &models.Receipt{SurveyID: 42, AnswersInserted: 2, SessionHash: "abc"}}
	metrics := &metricsStub{}
	svc := newTestSubmissionService(formReaderStub{form: openForm()}, store, guardStub{allowed: true}, metrics)

	req := SubmitRequest{
		FormID:         1,
		CompletionTime: 120,
		Answers: []models.AnswerInput{
			{QuestionID: 1, Value: "8"},
			{QuestionID: 2, ProfessorID: professorID(10), Value: "9"},
		},
	}
	receipt, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), receipt.SurveyID)
	assert.Equal(t, 2, receipt.AnswersInserted)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, []string{"accepted"}, metrics.outcomes)
}

func TestSubmissionServiceInvalidatesCourseReportCache(t *testing.T) {
	store := &surveyStoreStub{receipt: &models.Receipt{SurveyID: 42, AnswersInserted: 1, SessionHash: "abc"}}
	invalidator := &invalidatorStub{}
	catalog := catalogStub{questions: testCatalog()}
	roster := rosterStub{ids: []int64{10}}
	svc := NewSubmissionService(formReaderStub{form: openForm()}, catalog, roster, store, guardStub{allowed: true}, nil, invalidator, testLimits, fixedClock(submitNow), zap.NewNop())

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"report:course:7"}, invalidator.patterns)
}

func TestSubmissionServiceRejectsMalformedPayload(t *testing.T) {
	store := &surveyStoreStub{}
	svc := newTestSubmissionService(formReaderStub{form: openForm()}, store, guardStub{allowed: true}, &metricsStub{})

	_, err := svc.Submit(context.Background(), SubmitRequest{}, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.calls)
}

func TestSubmissionServiceRejectsEmptyAnswerList(t *testing.T) {
	store := &surveyStoreStub{}
	svc := newTestSubmissionService(formReaderStub{form: openForm()}, store, guardStub{allowed: true}, &metricsStub{})

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBadRequest.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.calls)
}

func TestSubmissionServiceRejectsUnknownForm(t *testing.T) {
	store := &surveyStoreStub{}
	svc := newTestSubmissionService(formReaderStub{err: sql.ErrNoRows}, store, guardStub{allowed: true}, &metricsStub{})

	req := SubmitRequest{FormID: 99, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.calls)
}

func TestSubmissionServiceRejectsInactiveForm(t *testing.T) {
	form := openForm()
	form.Active = false
	svc := newTestSubmissionService(formReaderStub{form: form}, &surveyStoreStub{}, guardStub{allowed: true}, &metricsStub{})

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFormInactive.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceRejectsInactiveCourse(t *testing.T) {
	form := openForm()
	form.CourseActive = false
	svc := newTestSubmissionService(formReaderStub{form: form}, &surveyStoreStub{}, guardStub{allowed: true}, &metricsStub{})

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFormInactive.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceRejectsFormNotYetOpen(t *testing.T) {
	form := openForm()
	form.StartDate = submitNow.Add(24 * time.Hour)
	svc := newTestSubmissionService(formReaderStub{form: form}, &surveyStoreStub{}, guardStub{allowed: true}, &metricsStub{})

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFormNotYetOpen.Code, appErrors.FromError(err).Code)
}

func TestSubmissionServiceRejectsExpiredForm(t *testing.T) {
	form := openForm()
	form.EndDate = submitNow.Add(-time.Hour)
	store := &surveyStoreStub{}
	metrics := &metricsStub{}
	svc := newTestSubmissionService(formReaderStub{form: form}, store, guardStub{allowed: true}, metrics)

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFormExpired.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.calls)
	assert.Equal(t, []string{appErrors.ErrFormExpired.Code}, metrics.outcomes)
}

func TestSubmissionServiceRejectsRateLimited(t *testing.T) {
	store := &surveyStoreStub{}
	svc := newTestSubmissionService(formReaderStub{form: openForm()}, store, guardStub{allowed: false}, &metricsStub{})

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRateLimited.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.calls)
}

func TestSubmissionServiceRejectsValidationFailure(t *testing.T) {
	store := &surveyStoreStub{}
	svc := newTestSubmissionService(formReaderStub{form: openForm()}, store, guardStub{allowed: true}, &metricsStub{})

	req := SubmitRequest{
		FormID: 1,
		Answers: []models.AnswerInput{
			{QuestionID: 1, Value: "8"},
			{QuestionID: 999, Value: "8"},
		},
	}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "question 999 (index 1) does not exist", appErr.Details[0])
	assert.Zero(t, store.calls)
}

func TestSubmissionServiceMapsPersistenceFailure(t *testing.T) {
	store := &surveyStoreStub{err: assert.AnError}
	metrics := &metricsStub{}
	svc := newTestSubmissionService(formReaderStub{form: openForm()}, store, guardStub{allowed: true}, metrics)

	req := SubmitRequest{FormID: 1, Answers: []models.AnswerInput{{QuestionID: 1, Value: "8"}}}
	_, err := svc.Submit(context.Background(), req, models.Fingerprint{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{appErrors.ErrPersistence.Code}, metrics.outcomes)
}
