package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Meta carries pagination details
type Meta struct {
	Limit      int   `json:"limit,omitempty"`
	Offset     int   `json:"offset,omitempty"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// AppError is an error that knows its HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: err}
}

// NewInternalServerError creates a 500 error
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

// NewServiceUnavailableError creates a 503 error
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message}
}

// SuccessResponse sends a 200 response with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessResponseWithMeta sends a 200 response with data and pagination
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// CreatedResponse sends a 201 response with data
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// ErrorResponse sends an error envelope with the given status
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   &ErrorInfo{Code: statusCode, Message: message},
	})
}

// AppErrorResponse sends the envelope for an AppError
func AppErrorResponse(c *gin.Context, err *AppError) {
	ErrorResponse(c, err.Code, err.Message)
}
