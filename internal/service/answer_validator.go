package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/campus-pulse/course-eval-api/internal/models"
	"github.com/campus-pulse/course-eval-api/pkg/config"
)

// AnswerLimits carries the configured validation defaults: the scale range
// used when a question defines none, and the text length ceiling.
type AnswerLimits struct {
	MaxTextLength int
	ScaleMin      float64
	ScaleMax      float64
}

// LimitsFromConfig derives AnswerLimits from the survey configuration.
func LimitsFromConfig(cfg config.SurveyConfig) AnswerLimits {
	return AnswerLimits{
		MaxTextLength: cfg.MaxTextLength,
		ScaleMin:      cfg.ScaleMin,
		ScaleMax:      cfg.ScaleMax,
	}
}

// ValidateAnswer checks one raw answer against its question definition and
// returns every applicable error message. A required question answered with
// blank input yields only the required error; an optional blank answer is
// accepted without further checks.
func ValidateAnswer(q models.Question, raw string, limits AnswerLimits) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if q.Required {
			return []string{fmt.Sprintf("question is required: %s", q.Text)}
		}
		return nil
	}

	var errs []string
	switch q.Type {
	case models.TypeScale:
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			errs = append(errs, "must be numeric")
			break
		}
		if q.Scale != nil && len(q.Scale.Allowed) > 0 {
			if !containsFloat(q.Scale.Allowed, value) {
				errs = append(errs, fmt.Sprintf("invalid scale value; allowed values: %s", joinFloats(q.Scale.Allowed)))
			}
			break
		}
		min, max := limits.ScaleMin, limits.ScaleMax
		if q.Scale != nil {
			min, max = q.Scale.Min, q.Scale.Max
		}
		if value < min || value > max {
			errs = append(errs, fmt.Sprintf("must be between %s and %s", formatFloat(min), formatFloat(max)))
		}
	case models.TypeText:
		maxLength := limits.MaxTextLength
		if q.Length != nil {
			maxLength = q.Length.MaxLength
		}
		if utf8.RuneCountInString(raw) > maxLength {
			errs = append(errs, fmt.Sprintf("text answer too long (maximum %d characters)", maxLength))
		}
	case models.TypeMultipleChoice:
		if q.Choice == nil || !containsString(q.Choice.Options, raw) {
			errs = append(errs, "invalid option")
		}
	}
	return errs
}

func containsFloat(values []float64, target float64) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ", ")
}
