package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the response shape every endpoint writes. Clients key off
// Success; the remaining fields are omitted when empty so list endpoints,
// single resources and errors all share one contract.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// Success writes a successful envelope. message and pagination may be empty.
func Success(c *gin.Context, status int, data interface{}, message string, pagination interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Created writes a 201 envelope for resource creation.
func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

// NoContent writes a 204 while keeping the envelope for clients that always
// parse a JSON body.
func NoContent(c *gin.Context, message string) {
	Success(c, http.StatusNoContent, nil, message, nil)
}

// Error writes a failure envelope.
func Error(c *gin.Context, status int, message string, err interface{}) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Error:   err,
	})
}

// ErrorWithLog writes a failure envelope after logging the underlying error.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	logFailure(logger, c, status, message, err)
	Error(c, status, message, err)
}

// ErrorWithData writes a failure envelope that still carries a data payload,
// for endpoints that return partial results alongside the error.
func ErrorWithData(logger *slog.Logger, c *gin.Context, status int, message string, data interface{}, err error) {
	logFailure(logger, c, status, message, err)

	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Data:    data,
		Error:   err,
	})
}

func logFailure(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger == nil || err == nil {
		return
	}
	logger.ErrorContext(c.Request.Context(), message,
		slog.Int("status", status),
		slog.String("error", err.Error()))
}
