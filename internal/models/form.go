package models

import "time"

// Form is a configured survey instance tied to one course and a validity
// window. Forms are owned by the admin subsystem; the submission flow only
// reads them.
type Form struct {
	ID              int64      `db:"id" json:"id"`
	Name            string     `db:"nombre" json:"nombre"`
	Description     *string    `db:"descripcion" json:"descripcion,omitempty"`
	CourseID        int64      `db:"curso_id" json:"curso_id"`
	Active          bool       `db:"activo" json:"activo"`
	StartDate       time.Time  `db:"fecha_inicio" json:"fecha_inicio"`
	EndDate         time.Time  `db:"fecha_fin" json:"fecha_fin"`
	AllowsAnonymous bool       `db:"permite_respuestas_anonimas" json:"permite_respuestas_anonimas"`
	CourseName      string     `db:"curso_nombre" json:"curso_nombre"`
	CourseActive    bool       `db:"curso_activo" json:"-"`
}

// Professor is a roster entry valid for a given form.
type Professor struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"nombre" json:"nombre"`
}
