package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/review-guard/pkg/common"
	"github.com/richxcame/review-guard/pkg/validation"
)

// ValidateJSON binds the JSON body into req and runs struct validation.
func ValidateJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return validation.ValidateStruct(req)
}

// ValidateQuery binds query parameters into req and runs struct validation.
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return err
	}
	return validation.ValidateStruct(req)
}

// RespondWithValidationError sends a 400 envelope. Field errors go in data.fields.
func RespondWithValidationError(c *gin.Context, err error) {
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, common.Response{
			Success: false,
			Data:    gin.H{"fields": valErr.Errors},
			Error:   &common.ErrorInfo{Code: http.StatusBadRequest, Message: "validation failed"},
		})
		return
	}
	common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
}

// ValidateAndBind returns false after writing the error response when req is invalid.
func ValidateAndBind(c *gin.Context, req interface{}) bool {
	if err := ValidateJSON(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}

// ValidateAndBindQuery is ValidateAndBind for query parameters.
func ValidateAndBindQuery(c *gin.Context, req interface{}) bool {
	if err := ValidateQuery(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}

// MaxBodySize rejects bodies larger than maxSize with 413.
func MaxBodySize(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || maxSize <= 0 {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.ErrorResponse(c, http.StatusRequestEntityTooLarge, "request body too large")
				c.Abort()
				return
			}
			common.ErrorResponse(c, http.StatusBadRequest, "unable to read request body")
			c.Abort()
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		c.Next()
	}
}
