package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-pulse/course-eval-api/internal/models"
)

// QuestionRepository reads question definitions for a form. The question
// catalog is immutable during a submission.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs a QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

type questionRow struct {
	ID       int64  `db:"id"`
	Text     string `db:"texto"`
	Section  string `db:"seccion"`
	Type     string `db:"tipo"`
	Required bool   `db:"es_obligatoria"`
	Options  []byte `db:"opciones"`
}

// ListByForm returns the active question definitions of a form keyed by id,
// with the opciones JSON column decoded into the typed constraint payload
// matching each question type.
func (r *QuestionRepository) ListByForm(ctx context.Context, formID int64) (map[int64]models.Question, error) {
	const query = `SELECT id, texto, seccion, tipo, es_obligatoria, opciones
	FROM preguntas WHERE formulario_id = $1 AND activo = TRUE ORDER BY orden, id`
	var rows []questionRow
	if err := r.db.SelectContext(ctx, &rows, query, formID); err != nil {
		return nil, fmt.Errorf("list questions for form %d: %w", formID, err)
	}

	questions := make(map[int64]models.Question, len(rows))
	for _, row := range rows {
		q := models.Question{
			ID:       row.ID,
			Text:     row.Text,
			Section:  models.QuestionSection(row.Section),
			Type:     models.QuestionType(row.Type),
			Required: row.Required,
		}
		if err := decodeOptions(&q, row.Options); err != nil {
			return nil, fmt.Errorf("decode options for question %d: %w", row.ID, err)
		}
		questions[q.ID] = q
	}
	return questions, nil
}

// scaleEntry mirrors one element of an enumerated scale option set, stored as
// [{"valor": 1}, ...] by the admin subsystem.
type scaleEntry struct {
	Value float64 `json:"valor"`
}

type scaleRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func decodeOptions(q *models.Question, raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch q.Type {
	case models.TypeScale:
		if raw[0] == '[' {
			var entries []scaleEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}
			allowed := make([]float64, len(entries))
			for i, entry := range entries {
				allowed[i] = entry.Value
			}
			q.Scale = &models.ScaleSpec{Allowed: allowed}
			return nil
		}
		var rng scaleRange
		if err := json.Unmarshal(raw, &rng); err != nil {
			return err
		}
		if rng.Min != nil && rng.Max != nil {
			q.Scale = &models.ScaleSpec{Min: *rng.Min, Max: *rng.Max}
		}
		return nil
	case models.TypeMultipleChoice:
		var options []string
		if err := json.Unmarshal(raw, &options); err != nil {
			return err
		}
		q.Choice = &models.ChoiceSpec{Options: options}
		return nil
	case models.TypeText:
		var spec models.TextSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return err
		}
		if spec.MaxLength > 0 {
			q.Length = &spec
		}
		return nil
	default:
		return nil
	}
}
