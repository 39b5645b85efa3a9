package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/pkg/config"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPredictorConfig(url string) config.PredictorConfig {
	return config.PredictorConfig{
		URL:                     url,
		Timeout:                 time.Second,
		BreakerIntervalSeconds:  60,
		BreakerTimeoutSeconds:   30,
		BreakerFailureThreshold: 5,
		BreakerSuccessThreshold: 1,
		RetryAttempts:           3,
	}
}

func TestHTTPPredictor_Score(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict/copy_paste", r.URL.Path)
		assert.Equal(t, "corr-42", r.Header.Get("X-Request-ID"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.PatternCopyPaste, req.Kind)
		assert.Equal(t, models.FeatureVector{1, 2, 3}, req.Features)

		w.Write([]byte(`{"probability":0.37}`))
	}))
	defer server.Close()

	p := NewHTTPPredictor(testPredictorConfig(server.URL))
	ctx := logger.ContextWithCorrelationID(context.Background(), "corr-42")

	prob, err := p.Score(ctx, models.PatternCopyPaste, models.FeatureVector{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.37, prob)
	assert.NoError(t, p.Ping(ctx))
}

func TestHTTPPredictor_SendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer model-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"probability":0.5}`))
	}))
	defer server.Close()

	cfg := testPredictorConfig(server.URL)
	cfg.APIKey = "model-token"

	prob, err := NewHTTPPredictor(cfg).Score(context.Background(), models.PatternBot, models.FeatureVector{0})
	require.NoError(t, err)
	assert.Equal(t, 0.5, prob)
}

func TestHTTPPredictor_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"probability":0.9}`))
	}))
	defer server.Close()

	p := NewHTTPPredictor(testPredictorConfig(server.URL))

	prob, err := p.Score(context.Background(), models.PatternFake, models.FeatureVector{1})
	require.NoError(t, err)
	assert.Equal(t, 0.9, prob)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPPredictor_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	p := NewHTTPPredictor(testPredictorConfig(server.URL))

	_, err := p.Score(context.Background(), models.PatternBot, models.FeatureVector{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrPredictorFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPPredictor_InvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing probability", body: `{}`},
		{name: "above one", body: `{"probability":1.5}`},
		{name: "negative", body: `{"probability":-0.1}`},
		{name: "not json", body: `probability=0.4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewHTTPPredictor(testPredictorConfig(server.URL))

			_, err := p.Score(context.Background(), models.PatternBurst, models.FeatureVector{1})
			assert.ErrorIs(t, err, scoring.ErrPredictorFailure)
		})
	}
}
