package sellerrisk

import (
	"math"
	"time"

	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/pkg/models"
)

// Risk bands shared by every seller score.
const (
	HighRiskThreshold   = 70.0
	MediumRiskThreshold = 40.0
)

// AssessRequest carries a seller's full review set.
type AssessRequest struct {
	Reviews []scoring.ReviewRequest `json:"reviews" validate:"dive"`
}

// ProfileInput is seller metadata scored without looking at review text.
type ProfileInput struct {
	TotalSales      float64 `json:"total_sales" validate:"gte=0"`
	AverageRating   float64 `json:"average_rating" validate:"gte=0,lte=5"`
	TotalReviews    int     `json:"total_reviews" validate:"gte=0"`
	VerifiedReviews int     `json:"verified_reviews" validate:"gte=0"`
	AccountAgeDays  float64 `json:"account_age_days" validate:"gte=0"`
	ViolationCount  int     `json:"violation_count" validate:"gte=0"`
	FakeReviewCount int     `json:"fake_review_count" validate:"gte=0"`
}

// FactorBreakdown splits a profile score into weighted risk areas.
type FactorBreakdown struct {
	Counterfeit        float64 `json:"counterfeit"`
	ReviewManipulation float64 `json:"review_manipulation"`
	PricingAnomaly     float64 `json:"pricing_anomaly"`
	AccountAge         float64 `json:"account_age"`
	Compliance         float64 `json:"compliance"`
}

// ProfileRiskAssessment is the metadata-based seller score.
type ProfileRiskAssessment struct {
	SellerID   string           `json:"seller_id"`
	RiskScore  float64          `json:"risk_score"`
	RiskLevel  models.RiskLevel `json:"risk_level"`
	Factors    FactorBreakdown  `json:"risk_factors"`
	Patterns   []string         `json:"suspicious_patterns"`
	AssessedAt time.Time        `json:"assessed_at"`
}

// ViolationRequest records one delivery problem.
type ViolationRequest struct {
	OrderID     string     `json:"order_id" validate:"required,max=128"`
	CustomerID  string     `json:"customer_id" validate:"omitempty,max=128"`
	Type        string     `json:"violation_type" validate:"required,violation_type"`
	Severity    string     `json:"severity" validate:"required,violation_severity"`
	Description string     `json:"description" validate:"max=2000"`
	OrderValue  float64    `json:"order_value" validate:"gte=0"`
	OccurredAt  *time.Time `json:"occurred_at" validate:"omitempty,past"`
}

// DeliveryRisk summarises a seller's delivery violations.
type DeliveryRisk struct {
	SellerID        string                       `json:"seller_id"`
	RiskScore       int                          `json:"risk_score"`
	TotalViolations int                          `json:"total_violations"`
	ViolationRate   float64                      `json:"violation_rate"`
	ByType          map[models.ViolationType]int `json:"violation_breakdown"`
	BySeverity      map[models.Severity]int      `json:"severity_breakdown"`
	RiskFactors     []string                     `json:"risk_factors"`
	ComputedAt      time.Time                    `json:"computed_at"`
}

// LevelFor maps a 0-100 score to its band.
func LevelFor(score float64) models.RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return models.RiskLevelHigh
	case score >= MediumRiskThreshold:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
