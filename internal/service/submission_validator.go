package service

import (
	"fmt"

	"github.com/campus-pulse/course-eval-api/internal/models"
)

// ProfessorIDSet turns a roster id list into the set consumed by
// ValidateSubmission.
func ProfessorIDSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ValidateSubmission checks every answer of a submission against the question
// catalog and professor roster. It is exhaustive, not fail-fast: all errors
// across all answers come back together, each referencing the answer's
// original index. The function is pure; calling it twice on the same inputs
// yields identical error lists.
func ValidateSubmission(answers []models.AnswerInput, questions map[int64]models.Question, professorIDs map[int64]struct{}, limits AnswerLimits) []string {
	var errs []string
	for i, answer := range answers {
		q, ok := questions[answer.QuestionID]
		if !ok {
			errs = append(errs, fmt.Sprintf("question %d (index %d) does not exist", answer.QuestionID, i))
			continue
		}

		switch q.Section {
		case models.SectionCourse:
			if answer.ProfessorID != nil {
				errs = append(errs, fmt.Sprintf("question %d (index %d) is a course question but a professor id was provided", answer.QuestionID, i))
			}
		case models.SectionProfessor:
			if answer.ProfessorID == nil {
				errs = append(errs, fmt.Sprintf("question %d (index %d) is a professor question but no professor id was provided", answer.QuestionID, i))
			} else if _, valid := professorIDs[*answer.ProfessorID]; !valid {
				errs = append(errs, fmt.Sprintf("professor %d (index %d) is not valid for this form", *answer.ProfessorID, i))
			}
		}

		for _, msg := range ValidateAnswer(q, answer.Value, limits) {
			errs = append(errs, fmt.Sprintf("error in answer for question %d (index %d): %s", answer.QuestionID, i, msg))
		}
	}
	return errs
}
