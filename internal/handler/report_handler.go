package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/course-eval-api/internal/models"
	"github.com/campus-pulse/course-eval-api/pkg/response"
)

type reportProvider interface {
	CourseReport(ctx context.Context, courseID int64) (*models.CourseReport, error)
	QuestionReport(ctx context.Context, courseID, questionID int64) (*models.QuestionDistribution, error)
	ExportCourseReport(ctx context.Context, courseID int64, format string) ([]byte, string, error)
}

// ReportHandler exposes the aggregate report reads.
type ReportHandler struct {
	reports reportProvider
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports reportProvider) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Course godoc
// @Summary Course evaluation report
// @Tags Reports
// @Produce json
// @Param id path int true "Course ID"
// @Param format query string false "Export format (csv/pdf)"
// @Success 200 {object} response.Envelope
// @Router /reports/courses/{id} [get]
func (h *ReportHandler) Course(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if format := c.Query("format"); format != "" {
		payload, contentType, err := h.reports.ExportCourseReport(c.Request.Context(), courseID, format)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Data(http.StatusOK, contentType, payload)
		return
	}

	report, err := h.reports.CourseReport(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Question godoc
// @Summary Answer distribution for one question
// @Tags Reports
// @Produce json
// @Param id path int true "Course ID"
// @Param qid path int true "Question ID"
// @Success 200 {object} response.Envelope
// @Router /reports/courses/{id}/questions/{qid} [get]
func (h *ReportHandler) Question(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(c, "qid")
	if !ok {
		return
	}

	report, err := h.reports.QuestionReport(c.Request.Context(), courseID, questionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}
