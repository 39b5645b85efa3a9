package models

import (
	"time"

	"github.com/google/uuid"
)

// PatternKind identifies an independent suspicious-behaviour classification
type PatternKind string

const (
	PatternFake      PatternKind = "fake"
	PatternBurst     PatternKind = "burst"
	PatternCopyPaste PatternKind = "copy_paste"
	PatternBot       PatternKind = "bot"
)

// PatternKinds lists every kind in the order the predictor is queried
var PatternKinds = []PatternKind{PatternFake, PatternBurst, PatternCopyPaste, PatternBot}

// Sentiment represents lexical review polarity
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// RiskLevel represents a seller risk band
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// ReviewInput is a single review submitted for scoring
type ReviewInput struct {
	ReviewID              string    `json:"review_id,omitempty"`
	ReviewerID            string    `json:"reviewer_id,omitempty"`
	ProductID             string    `json:"product_id,omitempty"`
	SellerID              string    `json:"seller_id,omitempty"`
	Text                  string    `json:"text"`
	Rating                int       `json:"rating"`
	SubmittedAt           time.Time `json:"submitted_at"`
	SourceAddress         string    `json:"source_address,omitempty"`
	VerifiedPurchase      bool      `json:"verified_purchase"`
	AccountAgeDays        float64   `json:"account_age_days"`
	VerifiedPurchaseCount int       `json:"verified_purchase_count,omitempty"`
	PriorFakeReviews      int       `json:"prior_fake_reviews,omitempty"`
}

// TextFeatures holds lexical signals extracted from review text
type TextFeatures struct {
	RepetitionScore       float64 `json:"repetition_score"`
	SuspiciousPhraseCount int     `json:"suspicious_phrase_count"`
	ExclamationCount      int     `json:"exclamation_count"`
	GenericWordCount      int     `json:"generic_word_count"`
	RepeatedStarters      int     `json:"repeated_starters"`
	TotalWords            int     `json:"total_words"`
	UniqueWords           int     `json:"unique_words"`
}

// FeatureVector is the fixed-size representation a predictor consumes
type FeatureVector []float64

// PatternVerdict is the detection outcome for one pattern kind
type PatternVerdict struct {
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
}

// ReviewResult is the full scoring outcome for one review
type ReviewResult struct {
	ReviewID       string         `json:"review_id,omitempty"`
	IsFake         bool           `json:"is_fake"`
	Confidence     float64        `json:"confidence"`
	RiskScore      float64        `json:"risk_score"`
	Sentiment      Sentiment      `json:"sentiment"`
	SentimentScore float64        `json:"sentiment_score"`
	Burst          PatternVerdict `json:"burst"`
	CopyPaste      PatternVerdict `json:"copy_paste"`
	Bot            PatternVerdict `json:"bot"`
	Authenticity   int            `json:"authenticity"`
	Credibility    int            `json:"credibility"`
	// Unavailable lists the signals whose predictor failed. Their verdicts are left at defaults.
	Unavailable []PatternKind `json:"unavailable,omitempty"`
	// Degraded is set only when the whole result is the default one.
	Degraded bool `json:"degraded"`
}

// DetectedPatterns returns the kinds whose verdict fired
func (r *ReviewResult) DetectedPatterns() []PatternKind {
	detected := make([]PatternKind, 0, 3)
	if r.Burst.Detected {
		detected = append(detected, PatternBurst)
	}
	if r.CopyPaste.Detected {
		detected = append(detected, PatternCopyPaste)
	}
	if r.Bot.Detected {
		detected = append(detected, PatternBot)
	}
	return detected
}

// PatternCounts tallies pattern detections across a seller's reviews
type PatternCounts struct {
	Burst        int `json:"burst_reviews"`
	CopyPaste    int `json:"copy_paste"`
	Bot          int `json:"bot_activity"`
	ShortReviews int `json:"short_reviews"`
}

// SellerRiskAssessment is the aggregate verdict over a seller's review set
type SellerRiskAssessment struct {
	ID                   uuid.UUID     `json:"id" db:"id"`
	SellerID             string        `json:"seller_id" db:"seller_id"`
	TotalReviews         int           `json:"total_reviews" db:"total_reviews"`
	FakeReviews          int           `json:"fake_reviews" db:"fake_reviews"`
	FakeReviewPercentage float64       `json:"fake_review_percentage" db:"fake_review_percentage"`
	Patterns             PatternCounts `json:"suspicious_patterns" db:"suspicious_patterns"`
	RiskScore            float64       `json:"risk_score" db:"risk_score"`
	RiskLevel            RiskLevel     `json:"risk_level" db:"risk_level"`
	RiskFactors          []string      `json:"risk_factors" db:"risk_factors"`
	GeneratedAt          time.Time     `json:"generated_at" db:"generated_at"`
}
