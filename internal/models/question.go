package models

// QuestionSection states whether a question targets the course overall or a
// specific professor.
type QuestionSection string

const (
	SectionCourse    QuestionSection = "curso"
	SectionProfessor QuestionSection = "profesor"
)

// QuestionType discriminates the constraint payload carried by a question.
type QuestionType string

const (
	TypeScale          QuestionType = "escala"
	TypeText           QuestionType = "texto"
	TypeMultipleChoice QuestionType = "opcion_multiple"
)

// ScaleSpec constrains a scale answer. When Allowed is non-empty, membership
// in that set is the only check; otherwise the [Min, Max] range applies.
type ScaleSpec struct {
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Allowed []float64 `json:"allowed,omitempty"`
}

// TextSpec constrains a free-text answer.
type TextSpec struct {
	MaxLength int `json:"max_length"`
}

// ChoiceSpec constrains a multiple-choice answer to a fixed option set.
type ChoiceSpec struct {
	Options []string `json:"options"`
}

// Question is one immutable question definition. Exactly one constraint
// payload matches Type; a nil payload means the configured defaults apply.
type Question struct {
	ID       int64           `json:"id"`
	Text     string          `json:"texto"`
	Section  QuestionSection `json:"seccion"`
	Type     QuestionType    `json:"tipo"`
	Required bool            `json:"es_obligatoria"`

	Scale  *ScaleSpec  `json:"escala,omitempty"`
	Length *TextSpec   `json:"texto_reglas,omitempty"`
	Choice *ChoiceSpec `json:"opciones,omitempty"`
}
