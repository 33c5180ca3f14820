package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-pulse/course-eval-api/internal/models"
	"github.com/campus-pulse/course-eval-api/internal/service"
	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
)

type submissionServiceMock struct {
	receipt *models.Receipt
	err     error
	called  bool
	lastReq service.SubmitRequest
	lastFP  models.Fingerprint
}

func (m *submissionServiceMock) Submit(ctx context.Context, req service.SubmitRequest, fp models.Fingerprint) (*models.Receipt, error) {
	m.called = true
	m.lastReq = req
	m.lastFP = fp
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func submitBody(t *testing.T) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"formulario_id":     1,
		"tiempo_completado": 120,
		"respuestas": []map[string]interface{}{
			{"pregunta_id": 1, "respuesta": "8"},
			{"pregunta_id": 2, "profesor_id": 10, "respuesta": "9"},
		},
	})
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestSurveyHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{
		receipt: &models.Receipt{SurveyID: 42, AnswersInserted: 2, SessionHash: "abc123"},
	}
	handler := NewSurveyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/surveys", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.called)
	assert.Equal(t, int64(1), mockSvc.lastReq.FormID)
	assert.Equal(t, "test-agent", mockSvc.lastFP.UserAgent)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(42), body["encuesta_id"])
	assert.Equal(t, float64(2), body["respuestas_insertadas"])
	assert.Equal(t, "abc123", body["hash_session"])
}

func TestSurveyHandlerSubmitInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{}
	handler := NewSurveyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/surveys", bytes.NewBufferString(`{"formulario_id":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.called)
}

func TestSurveyHandlerSubmitValidationFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{
		err: appErrors.WithDetails(appErrors.ErrValidation, []string{"question 999 (index 0) does not exist"}),
	}
	handler := NewSurveyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/surveys", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	errs, ok := body["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "question 999 (index 0) does not exist", errs[0])
}

func TestSurveyHandlerSubmitRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{err: appErrors.ErrRateLimited}
	handler := NewSurveyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/surveys", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSurveyHandlerSubmitExpiredForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &submissionServiceMock{err: appErrors.ErrFormExpired}
	handler := NewSurveyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/surveys", submitBody(t))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "form is no longer available", body["message"])
}
