package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-pulse/course-eval-api/internal/models"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
	"github.com/campus-pulse/course-eval-api/pkg/response"
)

type formCatalog interface {
	ListOpen(ctx context.Context) ([]models.Form, error)
	Questions(ctx context.Context, formID int64, section string) ([]models.Question, error)
	Professors(ctx context.Context, formID int64) ([]models.Professor, error)
}

// FormHandler exposes the public catalog reads the survey client consumes.
type FormHandler struct {
	forms formCatalog
}

// NewFormHandler constructs a FormHandler.
func NewFormHandler(forms formCatalog) *FormHandler {
	return &FormHandler{forms: forms}
}

// List godoc
// @Summary List open forms
// @Tags Forms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /forms [get]
func (h *FormHandler) List(c *gin.Context) {
	forms, err := h.forms.ListOpen(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, forms)
}

// Questions godoc
// @Summary List a form's questions
// @Tags Forms
// @Produce json
// @Param id path int true "Form ID"
// @Param seccion query string false "Filter by section (curso/profesor)"
// @Success 200 {object} response.Envelope
// @Router /forms/{id}/questions [get]
func (h *FormHandler) Questions(c *gin.Context) {
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}
	questions, err := h.forms.Questions(c.Request.Context(), formID, c.Query("seccion"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, questions)
}

// Professors godoc
// @Summary List a form's professor roster
// @Tags Forms
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope
// @Router /forms/{id}/professors [get]
func (h *FormHandler) Professors(c *gin.Context) {
	formID, ok := pathID(c, "id")
	if !ok {
		return
	}
	professors, err := h.forms.Professors(c.Request.Context(), formID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, professors)
}

// pathID parses a numeric path parameter, rejecting the request when it is
// not a positive integer.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "invalid "+name+" parameter"))
		return 0, false
	}
	return id, true
}
