package scoring

import (
	"context"

	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/models"
)

// Predictor returns the probability in [0,1] that a review exhibits kind.
// Implementations must not retain state between calls that changes the answer for a given vector.
type Predictor interface {
	Score(ctx context.Context, kind models.PatternKind, vector models.FeatureVector) (float64, error)
}

// FeatureEncoder turns a review and its lexical features into a fixed-size vector.
// Identical inputs must produce identical vectors.
type FeatureEncoder interface {
	Encode(review models.ReviewInput, features models.TextFeatures) (models.FeatureVector, error)
}

// EventPublisher publishes domain events. *eventbus.Bus satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event *eventbus.Event) error
}
