package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/campus-pulse/course-eval-api/pkg/errors"
)

// Envelope is the contract every survey client consumes: a success flag, the
// payload on success, and a message plus optional sub-error list on rejection.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Data: data})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends a rejection converting the error to the common structure. The
// sub-error list is populated only for validation failures.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{
		Success: false,
		Message: appErr.Message,
		Errors:  appErr.Details,
	})
}
