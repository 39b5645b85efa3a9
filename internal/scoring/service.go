package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/richxcame/review-guard/internal/textpattern"
	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service scores reviews. It holds no per-request state and is safe for concurrent use.
type Service struct {
	analyzer  *textpattern.Analyzer
	encoder   FeatureEncoder
	predictor Predictor
	publisher EventPublisher
	cfg       Config
}

// NewService creates a scoring service. publisher may be nil.
func NewService(encoder FeatureEncoder, predictor Predictor, publisher EventPublisher, cfg Config) *Service {
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = DefaultConfig().BatchConcurrency
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultConfig().MaxBatchSize
	}
	if cfg.Source == "" {
		cfg.Source = DefaultConfig().Source
	}
	return &Service{
		analyzer:  textpattern.NewAnalyzer(),
		encoder:   encoder,
		predictor: predictor,
		publisher: publisher,
		cfg:       cfg,
	}
}

// MaxBatchSize is the largest batch the service accepts.
func (s *Service) MaxBatchSize() int {
	return s.cfg.MaxBatchSize
}

// ScoreReview scores a single review. Collaborator failures degrade to defaults; nothing is returned as an error.
func (s *Service) ScoreReview(ctx context.Context, in models.ReviewInput) models.ReviewResult {
	result := s.score(ctx, in)

	if result.IsFake {
		s.publishFlagged(ctx, in, result)
	}
	return result
}

// ScoreBatch scores reviews concurrently. Results are 1:1 with inputs and in the same order.
func (s *Service) ScoreBatch(ctx context.Context, inputs []models.ReviewInput) []models.ReviewResult {
	results := make([]models.ReviewResult, len(inputs))
	if len(inputs) == 0 {
		return results
	}
	batchSizeHistogram.Observe(float64(len(inputs)))

	var g errgroup.Group
	g.SetLimit(s.cfg.BatchConcurrency)
	for i := range inputs {
		g.Go(func() error {
			results[i] = s.ScoreReview(ctx, inputs[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) score(ctx context.Context, in models.ReviewInput) (result models.ReviewResult) {
	ctx, span := tracing.Tracer("review-guard/scoring").Start(ctx, "scoring.ScoreReview")
	defer span.End()

	start := time.Now()
	log := logger.WithContext(ctx).With(zap.String("review_id", in.ReviewID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("review scoring panicked", zap.Any("panic", r))
			recordFallback("panic")
			result = DefaultResult(in.ReviewID)
		}
		scoringDuration.Observe(time.Since(start).Seconds())
		span.SetAttributes(
			attribute.Bool("review.fake", result.IsFake),
			attribute.Bool("review.degraded", result.Degraded),
			attribute.Int("review.unavailable_signals", len(result.Unavailable)),
			attribute.Int("review.authenticity", result.Authenticity),
		)
		switch {
		case result.Degraded:
			recordOutcome("degraded")
		case result.IsFake:
			recordOutcome("fake")
		default:
			recordOutcome("genuine")
		}
	}()

	rating := NormalizeRating(in.Rating)
	in.Rating = rating

	features := s.analyzer.Analyze(in.Text)

	vector, err := s.encoder.Encode(in, features)
	if err != nil {
		log.Warn("feature encoding failed, returning default result", zap.Error(err))
		tracing.RecordError(span, err)
		recordFallback("encoding")
		return DefaultResult(in.ReviewID)
	}

	result.ReviewID = in.ReviewID

	sentiment := s.analyzer.Sentiment(in.Text)
	result.Sentiment = sentiment.Label
	result.SentimentScore = sentiment.Score

	fake := defaultFakeVerdict()
	if p, err := s.predict(ctx, models.PatternFake, vector); err != nil {
		log.Warn("fake classifier unavailable, using default verdict", zap.Error(err))
		recordFallback("predictor")
		result.Unavailable = append(result.Unavailable, models.PatternFake)
	} else {
		fake = classifyFake(p)
	}
	result.IsFake = fake.IsFake
	result.Confidence = fake.Confidence
	result.RiskScore = fake.RiskScore

	verdicts := make(map[models.PatternKind]models.PatternVerdict, 3)
	for _, kind := range []models.PatternKind{models.PatternBurst, models.PatternCopyPaste, models.PatternBot} {
		p, err := s.predict(ctx, kind, vector)
		if err != nil {
			log.Warn("pattern predictor unavailable", zap.String("pattern", string(kind)), zap.Error(err))
			recordFallback("predictor")
			result.Unavailable = append(result.Unavailable, kind)
			verdicts[kind] = models.PatternVerdict{}
			continue
		}
		v := Enhance(kind, p, features, rating)
		if v.Detected {
			patternDetectionsTotal.WithLabelValues(string(kind)).Inc()
			if rules := TriggeredRules(kind, features, rating); len(rules) > 0 {
				span.SetAttributes(attribute.StringSlice("review."+string(kind)+"_rules", rules))
				log.Debug("pattern detected", zap.String("pattern", string(kind)), zap.Strings("rules", rules))
			}
		}
		verdicts[kind] = v
	}
	if len(result.Unavailable) == len(models.PatternKinds) {
		log.Warn("no predictor signal available, returning default result")
		return DefaultResult(in.ReviewID)
	}
	result.Burst = verdicts[models.PatternBurst]
	result.CopyPaste = verdicts[models.PatternCopyPaste]
	result.Bot = verdicts[models.PatternBot]

	result.Authenticity = Authenticity(result.IsFake, result.Confidence, len(result.DetectedPatterns()), features.TotalWords, rating)

	verified := in.VerifiedPurchaseCount
	if verified == 0 && in.VerifiedPurchase {
		verified = 1
	}
	ageDays := in.AccountAgeDays
	if math.IsNaN(ageDays) || math.IsInf(ageDays, 0) {
		ageDays = DefaultAccountAgeDays
	}
	result.Credibility = Credibility(verified, ageDays, in.PriorFakeReviews)

	return result
}

// predict calls the predictor and rejects probabilities outside [0,1].
func (s *Service) predict(ctx context.Context, kind models.PatternKind, vector models.FeatureVector) (float64, error) {
	p, err := s.predictor.Score(ctx, kind, vector)
	if err != nil {
		if errors.Is(err, ErrPredictorFailure) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrPredictorFailure, kind, err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %s returned %v", ErrPredictorFailure, kind, p)
	}
	return p, nil
}

func (s *Service) publishFlagged(ctx context.Context, in models.ReviewInput, result models.ReviewResult) {
	if s.publisher == nil {
		return
	}

	patterns := make([]string, 0, 3)
	for _, kind := range result.DetectedPatterns() {
		patterns = append(patterns, string(kind))
	}

	evt, err := eventbus.NewReviewFlaggedEvent(s.cfg.Source, eventbus.ReviewFlaggedData{
		ReviewID:     in.ReviewID,
		ReviewerID:   in.ReviewerID,
		ProductID:    in.ProductID,
		SellerID:     in.SellerID,
		Confidence:   result.Confidence,
		RiskScore:    result.RiskScore,
		Authenticity: result.Authenticity,
		Patterns:     patterns,
		FlaggedAt:    time.Now().UTC(),
	})
	if err == nil {
		err = s.publisher.Publish(ctx, eventbus.SubjectReviewFlagged, evt)
	}
	if err != nil {
		logger.WithContext(ctx).Warn("failed to publish review flagged event",
			zap.String("review_id", in.ReviewID),
			zap.Error(err),
		)
	}
}
