package models

import "time"

// AnswerInput is one raw answer from the client. ProfessorID is required iff
// the referenced question is professor-section, forbidden for course-section.
type AnswerInput struct {
	QuestionID  int64  `json:"pregunta_id"`
	ProfessorID *int64 `json:"profesor_id"`
	Value       string `json:"respuesta"`
}

// Submission is the inbound payload of one survey attempt.
type Submission struct {
	FormID         int64         `json:"formulario_id"`
	CompletionTime int           `json:"tiempo_completado"`
	Answers        []AnswerInput `json:"respuestas"`
}

// Fingerprint identifies the submitting client for anti-spam deduplication.
// The IP alone keys the spam window; the user agent is stored for audit.
type Fingerprint struct {
	IP        string
	UserAgent string
}

// Receipt is the success payload returned after persistence.
type Receipt struct {
	SurveyID        int64  `json:"encuesta_id"`
	AnswersInserted int    `json:"respuestas_insertadas"`
	SessionHash     string `json:"hash_session"`
}

// Survey is a persisted submission header.
type Survey struct {
	ID             int64     `db:"id" json:"id"`
	FormID         int64     `db:"formulario_id" json:"formulario_id"`
	CourseID       int64     `db:"curso_id" json:"curso_id"`
	CompletionTime int       `db:"tiempo_completado" json:"tiempo_completado"`
	IPAddress      string    `db:"ip_address" json:"-"`
	UserAgent      string    `db:"user_agent" json:"-"`
	SessionHash    string    `db:"hash_session" json:"hash_session"`
	SubmittedAt    time.Time `db:"fecha_envio" json:"fecha_envio"`
}
