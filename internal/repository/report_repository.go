package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-pulse/course-eval-api/internal/models"
)

// ReportRepository serves the read-only aggregate queries behind the admin
// report pages.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CourseName fetches the display name of a course. Returns sql.ErrNoRows for
// an unknown course.
func (r *ReportRepository) CourseName(ctx context.Context, courseID int64) (string, error) {
	const query = `SELECT nombre FROM cursos WHERE id = $1`
	var name string
	if err := r.db.GetContext(ctx, &name, query, courseID); err != nil {
		return "", err
	}
	return name, nil
}

// TotalSurveys counts the surveys submitted for a course.
func (r *ReportRepository) TotalSurveys(ctx context.Context, courseID int64) (int, error) {
	const query = `SELECT COUNT(DISTINCT e.id) FROM encuestas e WHERE e.curso_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, courseID); err != nil {
		return 0, fmt.Errorf("count course surveys: %w", err)
	}
	return total, nil
}

// QuestionAggregates returns per-question response counts, averages and
// low-score counts (scale value <= 5) across a course's scale answers.
func (r *ReportRepository) QuestionAggregates(ctx context.Context, courseID int64) ([]models.QuestionAggregate, error) {
	const query = `SELECT r.pregunta_id, p.texto, p.seccion,
	COUNT(*) AS total_respuestas,
	ROUND(AVG(r.valor_int)::numeric, 2) AS promedio,
	COUNT(CASE WHEN r.valor_int <= 5 THEN 1 END) AS respuestas_bajas
	FROM respuestas r
	JOIN encuestas e ON e.id = r.encuesta_id
	JOIN preguntas p ON p.id = r.pregunta_id
	WHERE e.curso_id = $1 AND r.valor_int IS NOT NULL
	GROUP BY r.pregunta_id, p.texto, p.seccion
	HAVING COUNT(*) >= 1
	ORDER BY r.pregunta_id`
	var aggregates []models.QuestionAggregate
	if err := r.db.SelectContext(ctx, &aggregates, query, courseID); err != nil {
		return nil, fmt.Errorf("question aggregates: %w", err)
	}
	return aggregates, nil
}

// ProfessorAggregates returns per-professor response counts and averages for
// a course's professor-section scale answers.
func (r *ReportRepository) ProfessorAggregates(ctx context.Context, courseID int64) ([]models.ProfessorAggregate, error) {
	const query = `SELECT r.profesor_id, pr.nombre,
	COUNT(*) AS total_respuestas,
	ROUND(AVG(r.valor_int)::numeric, 2) AS promedio
	FROM respuestas r
	JOIN encuestas e ON e.id = r.encuesta_id
	JOIN profesores pr ON pr.id = r.profesor_id
	WHERE e.curso_id = $1 AND r.valor_int IS NOT NULL AND r.profesor_id IS NOT NULL
	GROUP BY r.profesor_id, pr.nombre
	ORDER BY pr.nombre`
	var aggregates []models.ProfessorAggregate
	if err := r.db.SelectContext(ctx, &aggregates, query, courseID); err != nil {
		return nil, fmt.Errorf("professor aggregates: %w", err)
	}
	return aggregates, nil
}

// QuestionText fetches the text of one question.
func (r *ReportRepository) QuestionText(ctx context.Context, questionID int64) (string, error) {
	const query = `SELECT texto FROM preguntas WHERE id = $1`
	var text string
	if err := r.db.GetContext(ctx, &text, query, questionID); err != nil {
		return "", err
	}
	return text, nil
}

// Distribution returns the answer frequency buckets of one question within a
// course, most frequent first. Numeric and text answers share one value axis.
func (r *ReportRepository) Distribution(ctx context.Context, courseID, questionID int64) ([]models.AnswerFrequency, error) {
	const query = `SELECT COALESCE(r.valor_text, r.valor_int::text) AS valor, COUNT(*) AS cantidad
	FROM respuestas r
	JOIN encuestas e ON e.id = r.encuesta_id
	WHERE e.curso_id = $1 AND r.pregunta_id = $2
	GROUP BY COALESCE(r.valor_text, r.valor_int::text)
	ORDER BY cantidad DESC, valor`
	var frequencies []models.AnswerFrequency
	if err := r.db.SelectContext(ctx, &frequencies, query, courseID, questionID); err != nil {
		return nil, fmt.Errorf("answer distribution: %w", err)
	}
	return frequencies, nil
}
