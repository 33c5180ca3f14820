package models

import "time"

// QuestionAggregate summarises scale responses for one question of a course.
type QuestionAggregate struct {
	QuestionID    int64    `db:"pregunta_id" json:"pregunta_id"`
	QuestionText  string   `db:"texto" json:"texto"`
	Section       string   `db:"seccion" json:"seccion"`
	ResponseCount int      `db:"total_respuestas" json:"total_respuestas"`
	Average       *float64 `db:"promedio" json:"promedio"`
	LowCount      int      `db:"respuestas_bajas" json:"respuestas_bajas"`
}

// ProfessorAggregate summarises scale responses for one professor of a course.
type ProfessorAggregate struct {
	ProfessorID   int64    `db:"profesor_id" json:"profesor_id"`
	ProfessorName string   `db:"nombre" json:"nombre"`
	ResponseCount int      `db:"total_respuestas" json:"total_respuestas"`
	Average       *float64 `db:"promedio" json:"promedio"`
}

// CourseReport is the aggregate view rendered by the admin report pages.
type CourseReport struct {
	CourseID     int64                `json:"curso_id"`
	CourseName   string               `json:"curso_nombre"`
	TotalSurveys int                  `json:"total_encuestas"`
	Questions    []QuestionAggregate  `json:"preguntas"`
	Professors   []ProfessorAggregate `json:"profesores"`
	GeneratedAt  time.Time            `json:"generado_en"`
}

// AnswerFrequency is one bucket of a question's answer distribution.
type AnswerFrequency struct {
	Value string `db:"valor" json:"valor"`
	Count int    `db:"cantidad" json:"cantidad"`
}

// QuestionDistribution is the frequency distribution of one question's
// answers within a course.
type QuestionDistribution struct {
	QuestionID   int64             `json:"pregunta_id"`
	QuestionText string            `json:"texto"`
	Total        int               `json:"total"`
	Frequencies  []AnswerFrequency `json:"distribucion"`
}
