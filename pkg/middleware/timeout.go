package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/richxcame/review-guard/pkg/common"
)

// RequestTimeout aborts handlers that run longer than d with a 503 envelope.
// A non-positive d disables the limit.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusServiceUnavailable, "request timed out")
		}),
	)
}
