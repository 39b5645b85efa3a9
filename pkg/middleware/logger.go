package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/review-guard/pkg/logger"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request; scoring endpoints skip the body.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("ip", c.ClientIP()),
			zap.Int("response_bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		}

		reqLogger := logger.WithContext(c.Request.Context())

		switch {
		case len(c.Errors) > 0:
			reqLogger.Error("request completed with errors", append(fields, zap.String("errors", c.Errors.String()))...)
		case c.Writer.Status() >= 500:
			reqLogger.Warn("request failed", fields...)
		default:
			reqLogger.Info("request completed", fields...)
		}
	}
}
