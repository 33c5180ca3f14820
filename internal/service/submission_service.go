package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-pulse/course-eval-api/internal/models"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
)

type formReader interface {
	FindByID(ctx context.Context, id int64) (*models.Form, error)
}

type questionCatalog interface {
	ListByForm(ctx context.Context, formID int64) (map[int64]models.Question, error)
}

type professorRoster interface {
	IDsByForm(ctx context.Context, formID int64) ([]int64, error)
}

type surveyStore interface {
	Insert(ctx context.Context, sub models.Submission, form *models.Form, questions map[int64]models.Question, fp models.Fingerprint, now time.Time) (*models.Receipt, error)
}

type spamGuard interface {
	Allow(ctx context.Context, fp models.Fingerprint) (bool, error)
}

type submissionMetrics interface {
	RecordSubmission(outcome string)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SubmitRequest is the structurally-checked inbound payload. An empty answer
// list or a non-positive form id never reaches the domain validators.
type SubmitRequest struct {
	FormID         int64                `json:"formulario_id" validate:"required,gt=0"`
	CompletionTime int                  `json:"tiempo_completado"`
	Answers        []models.AnswerInput `json:"respuestas" validate:"required,min=1"`
}

// SubmissionService runs one submission through the full pipeline: structural
// check, form availability, anti-spam, answer validation, persistence. Each
// call runs synchronously to completion or rejection; nothing is retried.
type SubmissionService struct {
	forms     formReader
	catalog   questionCatalog
	roster    professorRoster
	surveys   surveyStore
	guard     spamGuard
	metrics   submissionMetrics
	cache     cacheInvalidator
	validator *validator.Validate
	limits    AnswerLimits
	clock     func() time.Time
	logger    *zap.Logger
}

// NewSubmissionService constructs the service. The clock is injected so form
// availability and spam windows are deterministic under test.
func NewSubmissionService(forms formReader, catalog questionCatalog, roster professorRoster, surveys surveyStore, guard spamGuard, metrics submissionMetrics, cache cacheInvalidator, limits AnswerLimits, clock func() time.Time, logger *zap.Logger) *SubmissionService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		forms:     forms,
		catalog:   catalog,
		roster:    roster,
		surveys:   surveys,
		guard:     guard,
		metrics:   metrics,
		cache:     cache,
		validator: validator.New(),
		limits:    limits,
		clock:     clock,
		logger:    logger,
	}
}

// Submit processes one survey submission and returns the persistence receipt.
// Every rejection is terminal for this attempt and guarantees zero persisted
// rows; persistence failures roll back before surfacing.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest, fp models.Fingerprint) (*models.Receipt, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, appErrors.ErrBadRequest.Message))
	}

	now := s.clock()

	form, err := s.forms.FindByID(ctx, req.FormID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject(appErrors.ErrNotFound)
		}
		return nil, s.fail("form lookup failed", req.FormID, err)
	}
	if !form.Active || !form.CourseActive {
		return nil, s.reject(appErrors.ErrFormInactive)
	}
	if now.Before(form.StartDate) {
		return nil, s.reject(appErrors.ErrFormNotYetOpen)
	}
	if now.After(form.EndDate) {
		return nil, s.reject(appErrors.ErrFormExpired)
	}

	allowed, err := s.guard.Allow(ctx, fp)
	if err != nil {
		return nil, s.fail("anti-spam lookup failed", req.FormID, err)
	}
	if !allowed {
		return nil, s.reject(appErrors.ErrRateLimited)
	}

	questions, err := s.catalog.ListByForm(ctx, req.FormID)
	if err != nil {
		return nil, s.fail("question catalog load failed", req.FormID, err)
	}
	professorIDs, err := s.roster.IDsByForm(ctx, req.FormID)
	if err != nil {
		return nil, s.fail("professor roster load failed", req.FormID, err)
	}

	if errs := ValidateSubmission(req.Answers, questions, ProfessorIDSet(professorIDs), s.limits); len(errs) > 0 {
		return nil, s.reject(appErrors.WithDetails(appErrors.ErrValidation, errs))
	}

	sub := models.Submission{
		FormID:         req.FormID,
		CompletionTime: req.CompletionTime,
		Answers:        req.Answers,
	}
	receipt, err := s.surveys.Insert(ctx, sub, form, questions, fp, now)
	if err != nil {
		// Detail stays server-side; the caller only sees the generic kind.
		s.logger.Error("survey persistence failed",
			zap.Int64("form_id", req.FormID),
			zap.String("ip", fp.IP),
			zap.Error(err))
		return nil, s.reject(appErrors.ErrPersistence)
	}

	if s.cache != nil {
		// The course report is stale now; drop it so the next read rebuilds.
		pattern := fmt.Sprintf("report:course:%d", form.CourseID)
		if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("report cache invalidation failed", zap.Int64("course_id", form.CourseID), zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordSubmission("accepted")
	}
	s.logger.Info("survey accepted",
		zap.Int64("form_id", req.FormID),
		zap.Int64("survey_id", receipt.SurveyID),
		zap.Int("answers", receipt.AnswersInserted))
	return receipt, nil
}

func (s *SubmissionService) reject(err *appErrors.Error) error {
	if s.metrics != nil {
		s.metrics.RecordSubmission(err.Code)
	}
	return err
}

func (s *SubmissionService) fail(msg string, formID int64, err error) error {
	s.logger.Error(msg, zap.Int64("form_id", formID), zap.Error(err))
	return s.reject(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message))
}
