package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/review-guard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		WindowSeconds:  60,
		DefaultLimit:   100,
		DefaultBurst:   10,
		AnonymousLimit: 30,
		AnonymousBurst: 5,
		RedisPrefix:    "rl",
	}
}

func newTestLimiter(cfg config.RateLimitConfig) (*Limiter, redismock.ClientMock) {
	client, mock := redismock.NewClientMock()
	return NewLimiter(client, cfg).WithNow(func() time.Time { return testNow }), mock
}

func TestRuleFor(t *testing.T) {
	overrides := map[string]config.EndpointRateLimitConfig{
		"/api/v1/reviews/batch":           {AuthenticatedLimit: 60, AuthenticatedBurst: 10, AnonymousLimit: 10, AnonymousBurst: 2},
		"/api/v1/sellers/:seller_id/risk": {WindowSeconds: 300, AuthenticatedBurst: -1, AnonymousBurst: -1},
	}

	tests := []struct {
		name     string
		endpoint string
		identity IdentityType
		want     Rule
	}{
		{"authenticated default", "/api/v1/reviews/score", IdentityAuthenticated, Rule{Limit: 100, Burst: 10, Window: time.Minute}},
		{"anonymous default", "/api/v1/reviews/score", IdentityAnonymous, Rule{Limit: 30, Burst: 5, Window: time.Minute}},
		{"authenticated batch", "/api/v1/reviews/batch", IdentityAuthenticated, Rule{Limit: 60, Burst: 10, Window: time.Minute}},
		{"anonymous batch", "/api/v1/reviews/batch", IdentityAnonymous, Rule{Limit: 10, Burst: 2, Window: time.Minute}},
		{"window only override keeps limits", "/api/v1/sellers/:seller_id/risk", IdentityAnonymous, Rule{Limit: 30, Burst: 5, Window: 5 * time.Minute}},
	}

	cfg := testConfig()
	cfg.EndpointOverrides = overrides
	limiter, _ := newTestLimiter(cfg)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, limiter.RuleFor(tt.endpoint, tt.identity))
		})
	}
}

func TestRuleFor_ZeroBurstOverrideApplies(t *testing.T) {
	cfg := testConfig()
	cfg.EndpointOverrides = map[string]config.EndpointRateLimitConfig{
		"/api/v1/alerts": {AuthenticatedLimit: 50},
	}
	limiter, _ := newTestLimiter(cfg)

	rule := limiter.RuleFor("/api/v1/alerts", IdentityAuthenticated)
	assert.Equal(t, 50, rule.Limit)
	assert.Equal(t, 0, rule.Burst)
}

func TestRuleFor_NegativeBurstClamped(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultBurst = -5
	limiter, _ := newTestLimiter(cfg)

	assert.Equal(t, 0, limiter.RuleFor("/api/v1/alerts", IdentityAuthenticated).Burst)
}

func TestAllow_Bypass(t *testing.T) {
	disabled := testConfig()
	disabled.Enabled = false

	tests := []struct {
		name          string
		cfg           config.RateLimitConfig
		rule          Rule
		wantRemaining int
	}{
		{"disabled limiter", disabled, Rule{Limit: 100, Burst: 10, Window: time.Minute}, 100},
		{"zero limit", testConfig(), Rule{Limit: 0, Window: time.Minute}, 0},
		{"negative limit", testConfig(), Rule{Limit: -1, Window: time.Minute}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, mock := newTestLimiter(tt.cfg)

			result, err := limiter.Allow(context.Background(), "/api/v1/alerts", "ip:10.0.0.1", tt.rule, IdentityAnonymous)

			require.NoError(t, err)
			assert.True(t, result.Allowed)
			assert.Equal(t, tt.wantRemaining, result.Remaining)
			assert.Equal(t, "ip:10.0.0.1", result.IdentityKey)
			assert.Equal(t, "/api/v1/alerts", result.EndpointKey)
			assert.Zero(t, result.RetryAfter)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAllow_TokenTaken(t *testing.T) {
	limiter, mock := newTestLimiter(testConfig())
	rule := Rule{Limit: 60, Burst: 10, Window: time.Minute}

	mock.ExpectEvalSha(limiter.script.Hash(), []string{"rl:/api/v1/reviews/score:ip:10.0.0.1"},
		70, formatFloat(0.001), testNow.UnixMilli(), int64(120000),
	).SetVal([]interface{}{int64(1), "69", int64(0), int64(1000)})

	result, err := limiter.Allow(context.Background(), "/api/v1/reviews/score", "ip:10.0.0.1", rule, IdentityAnonymous)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 69, result.Remaining)
	assert.Equal(t, time.Second, result.ResetAfter)
	assert.Zero(t, result.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_BucketEmpty(t *testing.T) {
	limiter, mock := newTestLimiter(testConfig())
	rule := Rule{Limit: 60, Burst: 0, Window: time.Minute}

	mock.ExpectEvalSha(limiter.script.Hash(), []string{"rl:/api/v1/reviews/batch:key:k-1"},
		60, formatFloat(0.001), testNow.UnixMilli(), int64(120000),
	).SetVal([]interface{}{int64(0), "0.25", int64(750), int64(59750)})

	result, err := limiter.Allow(context.Background(), "/api/v1/reviews/batch", "key:k-1", rule, IdentityAuthenticated)

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, 750*time.Millisecond, result.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_ZeroWindowUsesConfigWindow(t *testing.T) {
	cfg := testConfig()
	cfg.WindowSeconds = 30
	limiter, mock := newTestLimiter(cfg)

	mock.ExpectEvalSha(limiter.script.Hash(), []string{"rl:/api/v1/alerts:ip:10.0.0.1"},
		30, formatFloat(0.001), testNow.UnixMilli(), int64(60000),
	).SetVal([]interface{}{int64(1), "29", int64(0), int64(1000)})

	result, err := limiter.Allow(context.Background(), "/api/v1/alerts", "ip:10.0.0.1", Rule{Limit: 30}, IdentityAnonymous)

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, result.Window)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllow_RedisError(t *testing.T) {
	limiter, mock := newTestLimiter(testConfig())
	rule := Rule{Limit: 60, Burst: 0, Window: time.Minute}

	mock.ExpectEvalSha(limiter.script.Hash(), []string{"rl:/api/v1/alerts:ip:10.0.0.1"},
		60, formatFloat(0.001), testNow.UnixMilli(), int64(120000),
	).SetErr(errors.New("connection refused"))

	result, err := limiter.Allow(context.Background(), "/api/v1/alerts", "ip:10.0.0.1", rule, IdentityAnonymous)

	require.Error(t, err)
	assert.True(t, result.Allowed)
}

func TestAllow_UnexpectedReply(t *testing.T) {
	limiter, mock := newTestLimiter(testConfig())
	rule := Rule{Limit: 60, Burst: 0, Window: time.Minute}

	mock.ExpectEvalSha(limiter.script.Hash(), []string{"rl:/api/v1/alerts:ip:10.0.0.1"},
		60, formatFloat(0.001), testNow.UnixMilli(), int64(120000),
	).SetVal([]interface{}{int64(1)})

	_, err := limiter.Allow(context.Background(), "/api/v1/alerts", "ip:10.0.0.1", rule, IdentityAnonymous)
	assert.ErrorContains(t, err, "unexpected reply")
}

func TestIsTrustedKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKeys = []string{"k-1", "k-2"}
	limiter, _ := newTestLimiter(cfg)

	assert.True(t, limiter.IsTrustedKey("k-2"))
	assert.False(t, limiter.IsTrustedKey("k-3"))
	assert.False(t, limiter.IsTrustedKey(""))
}

func TestReplyConversion(t *testing.T) {
	assert.Equal(t, 42, toInt(int64(42)))
	assert.Equal(t, 123, toInt("123"))
	assert.Equal(t, 7, toInt(7.9))
	assert.Equal(t, 0, toInt("abc"))
	assert.Equal(t, 0, toInt(nil))

	assert.InDelta(t, 2.718, toFloat("2.718"), 1e-9)
	assert.InDelta(t, 10.0, toFloat(int64(10)), 1e-9)
	assert.Zero(t, toFloat(true))

	assert.Equal(t, "0.0010000000", formatFloat(0.001))
}

func TestConfigWindow(t *testing.T) {
	assert.Equal(t, 90*time.Second, config.RateLimitConfig{WindowSeconds: 90}.Window())
	assert.Equal(t, time.Minute, config.RateLimitConfig{}.Window())
	assert.Equal(t, time.Minute, config.RateLimitConfig{WindowSeconds: -1}.Window())
}
