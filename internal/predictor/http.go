package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/pkg/config"
	"github.com/richxcame/review-guard/pkg/httpclient"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/pkg/resilience"
)

type predictRequest struct {
	Kind     models.PatternKind   `json:"kind"`
	Features models.FeatureVector `json:"features"`
}

type predictResponse struct {
	Probability *float64 `json:"probability"`
}

// HTTPPredictor calls a remote model service at POST {baseURL}/predict/{kind}.
type HTTPPredictor struct {
	client *httpclient.Client
	apiKey string
}

// NewHTTPPredictor builds a predictor with retries and a circuit breaker from cfg.
func NewHTTPPredictor(cfg config.PredictorConfig) *HTTPPredictor {
	breaker := resilience.NewCircuitBreaker(
		resilience.PredictorSettings("predictor", cfg),
		resilience.WarnAndReject("predictor"),
	)

	retry := resilience.FastRetryConfig()
	retry.MaxAttempts = cfg.RetryAttempts

	return &HTTPPredictor{
		client: httpclient.NewClient(cfg.URL, cfg.Timeout,
			httpclient.WithRetry(retry),
			httpclient.WithBreaker(breaker),
		),
		apiKey: cfg.APIKey,
	}
}

// NewHTTPPredictorWithClient is used when the caller manages the client.
func NewHTTPPredictorWithClient(client *httpclient.Client) *HTTPPredictor {
	return &HTTPPredictor{client: client}
}

// Score implements scoring.Predictor.
func (p *HTTPPredictor) Score(ctx context.Context, kind models.PatternKind, vector models.FeatureVector) (float64, error) {
	headers := make(map[string]string, 2)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		headers["X-Request-ID"] = id
	}
	if p.apiKey != "" {
		headers["Authorization"] = "Bearer " + p.apiKey
	}

	body, err := p.client.Post(ctx, "/predict/"+string(kind), predictRequest{Kind: kind, Features: vector}, headers)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", scoring.ErrPredictorFailure, kind, err)
	}

	var resp predictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("%w: %s: decode response: %v", scoring.ErrPredictorFailure, kind, err)
	}
	if resp.Probability == nil {
		return 0, fmt.Errorf("%w: %s: response has no probability", scoring.ErrPredictorFailure, kind)
	}

	prob := *resp.Probability
	if math.IsNaN(prob) || prob < 0 || prob > 1 {
		return 0, fmt.Errorf("%w: %s: probability %v out of range", scoring.ErrPredictorFailure, kind, prob)
	}
	return prob, nil
}

// Ping reports whether the predictor's breaker is closed.
func (p *HTTPPredictor) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
