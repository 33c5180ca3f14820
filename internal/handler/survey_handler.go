package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/course-eval-api/internal/models"
	"github.com/campus-pulse/course-eval-api/internal/service"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
	"github.com/campus-pulse/course-eval-api/pkg/response"
)

type submissionProcessor interface {
	Submit(ctx context.Context, req service.SubmitRequest, fp models.Fingerprint) (*models.Receipt, error)
}

// SurveyHandler wires the submission pipeline to HTTP.
type SurveyHandler struct {
	submissions submissionProcessor
}

// NewSurveyHandler constructs a SurveyHandler.
func NewSurveyHandler(submissions submissionProcessor) *SurveyHandler {
	return &SurveyHandler{submissions: submissions}
}

// Submit godoc
// @Summary Submit a survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body service.SubmitRequest true "Survey submission"
// @Success 201 {object} models.Receipt
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /surveys [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, appErrors.ErrBadRequest.Message))
		return
	}

	fp := models.Fingerprint{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	receipt, err := h.submissions.Submit(c.Request.Context(), req, fp)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":               true,
		"encuesta_id":           receipt.SurveyID,
		"respuestas_insertadas": receipt.AnswersInserted,
		"hash_session":          receipt.SessionHash,
	})
}
