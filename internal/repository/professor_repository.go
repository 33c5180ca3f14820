package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-pulse/course-eval-api/internal/models"
)

// ProfessorRepository reads the professor roster assigned to a form.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// ListByForm returns the professors evaluable through a form.
func (r *ProfessorRepository) ListByForm(ctx context.Context, formID int64) ([]models.Professor, error) {
	const query = `SELECT p.id, p.nombre FROM profesores p
	JOIN formulario_profesores fp ON fp.profesor_id = p.id
	WHERE fp.formulario_id = $1 AND p.activo = TRUE ORDER BY p.nombre`
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query, formID); err != nil {
		return nil, fmt.Errorf("list professors for form %d: %w", formID, err)
	}
	return professors, nil
}

// IDsByForm returns only the valid professor ids for a form, used by the
// submission validator.
func (r *ProfessorRepository) IDsByForm(ctx context.Context, formID int64) ([]int64, error) {
	const query = `SELECT p.id FROM profesores p
	JOIN formulario_profesores fp ON fp.profesor_id = p.id
	WHERE fp.formulario_id = $1 AND p.activo = TRUE`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, formID); err != nil {
		return nil, fmt.Errorf("list professor ids for form %d: %w", formID, err)
	}
	return ids, nil
}
