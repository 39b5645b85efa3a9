package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/richxcame/review-guard/pkg/resilience"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 1 << 20
)

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Client is a JSON HTTP client with optional retries and circuit breaking.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig *resilience.RetryConfig
	breaker     *resilience.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithRetry retries failed requests using config.
func WithRetry(config resilience.RetryConfig) Option {
	return func(c *Client) {
		if config.RetryableChecker == nil {
			config.RetryableChecker = isHTTPRetryable
		}
		c.retryConfig = &config
	}
}

// WithBreaker routes every attempt through breaker.
func WithBreaker(breaker *resilience.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = breaker
	}
}

// NewClient creates a client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping reports ErrCircuitOpen while the breaker is open.
func (c *Client) Ping(ctx context.Context) error {
	if c.breaker == nil {
		return nil
	}
	return c.breaker.Ping(ctx)
}

// Get issues a GET request and returns the response body.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) ([]byte, error) {
	return c.execute(ctx, http.MethodGet, path, nil, headers)
}

// Post marshals body as JSON and returns the response body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, headers map[string]string) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}
	return c.execute(ctx, http.MethodPost, path, payload, headers)
}

func (c *Client) execute(ctx context.Context, method, path string, payload []byte, headers map[string]string) ([]byte, error) {
	op := func(ctx context.Context) (interface{}, error) {
		return c.do(ctx, method, path, payload, headers)
	}

	var (
		result interface{}
		err    error
	)
	switch {
	case c.retryConfig != nil && c.breaker != nil:
		result, err = resilience.RetryWithBreaker(ctx, *c.retryConfig, c.breaker, op)
	case c.retryConfig != nil:
		result, err = resilience.Retry(ctx, *c.retryConfig, op)
	case c.breaker != nil:
		result, err = c.breaker.Execute(ctx, op)
	default:
		result, err = op(ctx)
	}
	if err != nil {
		return nil, err
	}
	body, _ := result.([]byte)
	return body, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// isHTTPRetryable retries transport errors and retryable statuses.
func isHTTPRetryable(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return resilience.IsRetryableHTTPStatus(httpErr.StatusCode)
	}
	return true
}
