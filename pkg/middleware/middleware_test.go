package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/review-guard/pkg/config"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorrelationID_PropagatesHeaderToContext(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = logger.CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationIDHeader, "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(CorrelationIDHeader))
}

func TestCorrelationID_GeneratesWhenMissing(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/ping", func(c *gin.Context) {
		assert.NotEmpty(t, GetCorrelationID(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Len(t, w.Header().Get(CorrelationIDHeader), 36)
}

func TestCorrelationID_ReplacesMalformedHeader(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, bad := range []string{"has space", strings.Repeat("x", 129), "tab\there"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(CorrelationIDHeader, bad)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get(CorrelationIDHeader)
		assert.NotEqual(t, bad, got)
		assert.Len(t, got, 36)
	}
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("scorer exploded") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestMaxBodySize(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(16))
	r.POST("/score", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"text":"ok"}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

type scoreBody struct {
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"gte=0,lte=5"`
}

func TestValidateAndBind_ReportsFields(t *testing.T) {
	r := gin.New()
	r.POST("/score", func(c *gin.Context) {
		var req scoreBody
		if !ValidateAndBind(c, &req) {
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(`{"text":"fine","rating":7}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "rating must be less than or equal to 5")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(50 * time.Millisecond))
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(500 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func rateLimitRouter(cfg config.RateLimitConfig) *gin.Engine {
	client, _ := redismock.NewClientMock()
	r := gin.New()
	r.Use(RateLimit(ratelimit.NewLimiter(client, cfg)))
	r.GET("/api/v1/alerts", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	r := rateLimitRouter(config.RateLimitConfig{Enabled: false, AnonymousLimit: 1})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_FailsOpenWhenRedisUnavailable(t *testing.T) {
	r := rateLimitRouter(config.RateLimitConfig{Enabled: true, AnonymousLimit: 10, RedisPrefix: "rl"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_NilLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
