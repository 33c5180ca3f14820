package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campus-pulse/course-eval-api/internal/models"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
)

type formLister interface {
	formReader
	ListOpen(ctx context.Context, now time.Time) ([]models.Form, error)
}

type professorReader interface {
	professorRoster
	ListByForm(ctx context.Context, formID int64) ([]models.Professor, error)
}

// FormService serves the public catalog reads the survey client needs before
// it can build a submission: open forms, question definitions, professor
// roster.
type FormService struct {
	forms      formLister
	catalog    questionCatalog
	professors professorReader
	clock      func() time.Time
	logger     *zap.Logger
}

// NewFormService constructs the service.
func NewFormService(forms formLister, catalog questionCatalog, professors professorReader, clock func() time.Time, logger *zap.Logger) *FormService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{forms: forms, catalog: catalog, professors: professors, clock: clock, logger: logger}
}

// ListOpen returns the forms currently accepting submissions.
func (s *FormService) ListOpen(ctx context.Context) ([]models.Form, error) {
	forms, err := s.forms.ListOpen(ctx, s.clock())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list open forms")
	}
	return forms, nil
}

// Questions returns a form's question definitions ordered by id, optionally
// filtered to one section.
func (s *FormService) Questions(ctx context.Context, formID int64, section string) ([]models.Question, error) {
	if _, err := s.findForm(ctx, formID); err != nil {
		return nil, err
	}

	byID, err := s.catalog.ListByForm(ctx, formID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load questions")
	}

	questions := make([]models.Question, 0, len(byID))
	for _, q := range byID {
		if section != "" && string(q.Section) != section {
			continue
		}
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

// Professors returns the roster evaluable through a form.
func (s *FormService) Professors(ctx context.Context, formID int64) ([]models.Professor, error) {
	if _, err := s.findForm(ctx, formID); err != nil {
		return nil, err
	}

	professors, err := s.professors.ListByForm(ctx, formID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load professors")
	}
	return professors, nil
}

func (s *FormService) findForm(ctx context.Context, formID int64) (*models.Form, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load form")
	}
	return form, nil
}
