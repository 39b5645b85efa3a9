package scoring

import (
	"math"
	"time"

	"github.com/richxcame/review-guard/pkg/models"
)

// Policy constants. Consumers key business logic off these values.
const (
	// FakeThreshold sits below 0.5 to favour recall on synthetic reviews.
	FakeThreshold = 0.45
	// PatternThreshold applies to burst, copy-paste and bot.
	PatternThreshold = 0.35

	// DefaultConfidence is reported when the fake classifier is unavailable.
	DefaultConfidence = 0.5
	// DefaultRiskScore pairs with DefaultConfidence.
	DefaultRiskScore = 50.0
	// DefaultScore is the authenticity and credibility reported for a fully degraded review.
	DefaultScore = 50

	// DefaultAccountAgeDays is assumed when a request omits the reviewer's account age.
	DefaultAccountAgeDays = 30.0
	// DefaultRating is assumed when a review carries no rating.
	DefaultRating = 5
)

// Config tunes the scoring service.
type Config struct {
	BatchConcurrency int
	MaxBatchSize     int
	// Source names this service in published events.
	Source string
}

// DefaultConfig returns the settings used when none are supplied.
func DefaultConfig() Config {
	return Config{BatchConcurrency: 8, MaxBatchSize: 1000, Source: "review-scoring"}
}

// DefaultResult is returned when a review cannot be analysed at all.
func DefaultResult(reviewID string) models.ReviewResult {
	return models.ReviewResult{
		ReviewID:     reviewID,
		IsFake:       false,
		Confidence:   DefaultConfidence,
		RiskScore:    DefaultRiskScore,
		Sentiment:    models.SentimentNeutral,
		Authenticity: DefaultScore,
		Credibility:  DefaultScore,
		Degraded:     true,
	}
}

// ReviewRequest is the wire form of a review.
type ReviewRequest struct {
	ReviewID              string     `json:"review_id" validate:"omitempty,max=128"`
	ReviewerID            string     `json:"reviewer_id" validate:"omitempty,max=128"`
	ProductID             string     `json:"product_id" validate:"omitempty,max=128"`
	SellerID              string     `json:"seller_id" validate:"omitempty,max=128"`
	Text                  string     `json:"text" validate:"max=50000"`
	Rating                int        `json:"rating"`
	SubmittedAt           *time.Time `json:"submitted_at"`
	SourceAddress         string     `json:"source_address" validate:"omitempty,ip"`
	VerifiedPurchase      bool       `json:"verified_purchase"`
	AccountAgeDays        *float64   `json:"account_age_days" validate:"omitempty,gte=0"`
	VerifiedPurchaseCount int        `json:"verified_purchase_count" validate:"gte=0"`
	PriorFakeReviews      int        `json:"prior_fake_reviews" validate:"gte=0"`
}

// ToInput converts the request, filling defaults for omitted optional fields.
func (r *ReviewRequest) ToInput() models.ReviewInput {
	in := models.ReviewInput{
		ReviewID:              r.ReviewID,
		ReviewerID:            r.ReviewerID,
		ProductID:             r.ProductID,
		SellerID:              r.SellerID,
		Text:                  r.Text,
		Rating:                r.Rating,
		SourceAddress:         r.SourceAddress,
		VerifiedPurchase:      r.VerifiedPurchase,
		AccountAgeDays:        DefaultAccountAgeDays,
		VerifiedPurchaseCount: r.VerifiedPurchaseCount,
		PriorFakeReviews:      r.PriorFakeReviews,
	}
	if r.SubmittedAt != nil {
		in.SubmittedAt = *r.SubmittedAt
	}
	if r.AccountAgeDays != nil {
		in.AccountAgeDays = *r.AccountAgeDays
	}
	return in
}

// BatchRequest carries many reviews scored in one call.
type BatchRequest struct {
	Reviews []ReviewRequest `json:"reviews" validate:"required,dive"`
}

// BatchResponse preserves request order.
type BatchResponse struct {
	Results  []models.ReviewResult `json:"results"`
	Count    int                   `json:"count"`
	Flagged  int                   `json:"flagged"`
	Degraded int                   `json:"degraded"`
}

// NormalizeRating maps a missing rating to DefaultRating and clamps the rest into 1..5.
func NormalizeRating(rating int) int {
	switch {
	case rating == 0:
		return DefaultRating
	case rating < 1:
		return 1
	case rating > 5:
		return 5
	default:
		return rating
	}
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
