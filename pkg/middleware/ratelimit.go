package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/review-guard/pkg/common"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/ratelimit"
	"go.uber.org/zap"
)

// APIKeyHeader identifies trusted callers to the rate limiter
const APIKeyHeader = "X-API-Key"

// RateLimit applies the limiter per route and client. Redis failures let the request through.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !limiter.Enabled() {
			c.Next()
			return
		}

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		identity, identityType := "ip:"+c.ClientIP(), ratelimit.IdentityAnonymous
		if key := c.GetHeader(APIKeyHeader); limiter.IsTrustedKey(key) {
			identity, identityType = "key:"+key, ratelimit.IdentityAuthenticated
		}

		rule := limiter.RuleFor(endpoint, identityType)
		result, err := limiter.Allow(c.Request.Context(), endpoint, identity, rule, identityType)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(result.Remaining, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(result.ResetAfter.Seconds())))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(max(ceilSeconds(result.RetryAfter.Seconds()), 1)))
			common.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

func ceilSeconds(s float64) int {
	return int(math.Ceil(s))
}
