package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/logger"
)

const (
	// CorrelationIDHeader carries the request id in and out
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is the gin context key for the request id
	CorrelationIDKey = "correlation_id"

	maxCorrelationIDLength = 128
)

// CorrelationID reuses a well-formed caller X-Request-ID or mints a UUID, and puts it on
// the request context so logger.WithContext and outgoing predictor calls carry it.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if !validCorrelationID(id) {
			id = uuid.NewString()
		}

		c.Set(CorrelationIDKey, id)
		c.Request = c.Request.WithContext(logger.ContextWithCorrelationID(c.Request.Context(), id))
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}

// GetCorrelationID returns the request id set by CorrelationID
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}

// validCorrelationID accepts up to 128 printable ASCII bytes.
func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
