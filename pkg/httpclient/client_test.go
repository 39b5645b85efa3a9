package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/richxcame/review-guard/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict/bot", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bot", body["kind"])

		w.Write([]byte(`{"probability":0.3}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	body, err := client.Post(context.Background(), "/predict/bot", map[string]string{"kind": "bot"}, map[string]string{"X-Request-ID": "req-1"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"probability":0.3}`, string(body))
}

func TestClient_Get_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such model"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 0).Get(context.Background(), "/models/x", nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "HTTP 404: no such model", httpErr.Error())
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`ok`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, WithRetry(quickRetry()))
	body, err := client.Get(context.Background(), "/", nil)

	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, WithRetry(quickRetry()))
	_, err := client.Post(context.Background(), "/", nil, nil)

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	breaker := resilience.NewCircuitBreaker(resilience.Settings{
		Name:             "httpclient-test",
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, nil)
	client := NewClient(server.URL, time.Second, WithBreaker(breaker))

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "/", nil)
		assert.Error(t, err)
	}
	_, err := client.Get(context.Background(), "/", nil)

	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.ErrorIs(t, client.Ping(context.Background()), resilience.ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL, 5*time.Second, WithRetry(quickRetry())).Get(ctx, "/slow", nil)
	assert.Error(t, err)
}

func TestIsHTTPRetryable(t *testing.T) {
	assert.True(t, isHTTPRetryable(&HTTPError{StatusCode: 503}))
	assert.True(t, isHTTPRetryable(&HTTPError{StatusCode: 429}))
	assert.False(t, isHTTPRetryable(&HTTPError{StatusCode: 400}))
	assert.True(t, isHTTPRetryable(errors.New("connection reset")))
}
