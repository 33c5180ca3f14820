package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-pulse/course-eval-api/internal/models"
)

// FormRepository reads survey form definitions. Forms are owned by the admin
// subsystem; this repository never writes them.
type FormRepository struct {
	db *sqlx.DB
}

// NewFormRepository constructs a FormRepository.
func NewFormRepository(db *sqlx.DB) *FormRepository {
	return &FormRepository{db: db}
}

const formColumns = `f.id, f.nombre, f.descripcion, f.curso_id, f.activo, f.fecha_inicio, f.fecha_fin,
	f.permite_respuestas_anonimas, c.nombre AS curso_nombre, c.activo AS curso_activo`

// FindByID fetches one form joined with its course. Returns sql.ErrNoRows
// when the form is unknown.
func (r *FormRepository) FindByID(ctx context.Context, id int64) (*models.Form, error) {
	query := fmt.Sprintf(`SELECT %s FROM formularios f JOIN cursos c ON c.id = f.curso_id WHERE f.id = $1`, formColumns)
	var form models.Form
	if err := r.db.GetContext(ctx, &form, query, id); err != nil {
		return nil, err
	}
	return &form, nil
}

// ListOpen returns the forms currently accepting submissions: active, tied to
// an active course, and inside their validity window at the given instant.
func (r *FormRepository) ListOpen(ctx context.Context, now time.Time) ([]models.Form, error) {
	query := fmt.Sprintf(`SELECT %s FROM formularios f JOIN cursos c ON c.id = f.curso_id
	WHERE f.activo = TRUE AND c.activo = TRUE AND f.fecha_inicio <= $1 AND f.fecha_fin >= $1
	ORDER BY f.fecha_fin, f.id`, formColumns)
	var forms []models.Form
	if err := r.db.SelectContext(ctx, &forms, query, now); err != nil {
		return nil, fmt.Errorf("list open forms: %w", err)
	}
	return forms, nil
}
