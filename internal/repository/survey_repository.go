package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-pulse/course-eval-api/internal/models"
	"github.com/campus-pulse/course-eval-api/pkg/config"
)

// SurveyRepository persists validated submissions and serves the submission
// history read used by the anti-spam guard.
type SurveyRepository struct {
	db  *sqlx.DB
	cfg config.SurveyConfig
}

// NewSurveyRepository constructs a SurveyRepository.
func NewSurveyRepository(db *sqlx.DB, cfg config.SurveyConfig) *SurveyRepository {
	return &SurveyRepository{db: db, cfg: cfg}
}

// Insert writes the survey header and all answer rows in one transaction.
// Any failure rolls the whole submission back; a submission is never
// partially persisted. The questions map decides whether each value lands in
// the numeric or the text slot.
func (r *SurveyRepository) Insert(ctx context.Context, sub models.Submission, form *models.Form, questions map[int64]models.Question, fp models.Fingerprint, now time.Time) (*models.Receipt, error) {
	hash, err := newSessionHash()
	if err != nil {
		return nil, fmt.Errorf("failed to save survey: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to save survey: %w", err)
	}

	const headerQuery = `INSERT INTO encuestas (formulario_id, curso_id, tiempo_completado, ip_address, user_agent, hash_session, fecha_envio)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var surveyID int64
	completion := clamp(sub.CompletionTime, r.cfg.MinCompletionSeconds, r.cfg.MaxCompletionSeconds)
	if err := tx.QueryRowxContext(ctx, headerQuery, sub.FormID, form.CourseID, completion, fp.IP, fp.UserAgent, hash, now).Scan(&surveyID); err != nil {
		tx.Rollback() //nolint:errcheck
		return nil, fmt.Errorf("failed to save survey: %w", err)
	}

	const answerQuery = `INSERT INTO respuestas (encuesta_id, pregunta_id, profesor_id, valor_int, valor_text)
	VALUES ($1, $2, $3, $4, $5)`
	for _, answer := range sub.Answers {
		numeric, text, err := splitValue(questions[answer.QuestionID], answer.Value)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("failed to save survey: %w", err)
		}
		professorID := sql.NullInt64{}
		if answer.ProfessorID != nil {
			professorID = sql.NullInt64{Int64: *answer.ProfessorID, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, answerQuery, surveyID, answer.QuestionID, professorID, numeric, text); err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("failed to save survey: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to save survey: %w", err)
	}

	return &models.Receipt{
		SurveyID:        surveyID,
		AnswersInserted: len(sub.Answers),
		SessionHash:     hash,
	}, nil
}

// CountRecent returns how many surveys the given client IP submitted at or
// after the since instant.
func (r *SurveyRepository) CountRecent(ctx context.Context, ip string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM encuestas WHERE ip_address = $1 AND fecha_envio >= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, ip, since); err != nil {
		return 0, fmt.Errorf("count recent submissions: %w", err)
	}
	return count, nil
}

// splitValue routes the raw answer into the slot matching its question type:
// scale answers become numeric, everything else stays text. A blank answer to
// an optional question lands as NULL in both slots; validation already
// guaranteed required questions are never blank.
func splitValue(q models.Question, raw string) (sql.NullFloat64, sql.NullString, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return sql.NullFloat64{}, sql.NullString{}, nil
	}
	if q.Type == models.TypeScale {
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return sql.NullFloat64{}, sql.NullString{}, fmt.Errorf("scale answer for question %d is not numeric", q.ID)
		}
		return sql.NullFloat64{Float64: parsed, Valid: true}, sql.NullString{}, nil
	}
	return sql.NullFloat64{}, sql.NullString{String: raw, Valid: true}, nil
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// newSessionHash generates the opaque uniqueness marker stored with each
// survey: 32 bytes of entropy, hex encoded.
func newSessionHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
