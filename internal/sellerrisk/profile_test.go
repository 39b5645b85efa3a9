package sellerrisk

import (
	"testing"

	"github.com/richxcame/review-guard/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestAssessProfile(t *testing.T) {
	tests := []struct {
		name     string
		in       ProfileInput
		score    float64
		level    models.RiskLevel
		patterns []string
	}{
		{
			name:     "neutral seller",
			in:       ProfileInput{TotalSales: 50000, AverageRating: 4.0, TotalReviews: 20, VerifiedReviews: 10, AccountAgeDays: 200},
			score:    50,
			level:    models.RiskLevelMedium,
			patterns: []string{},
		},
		{
			name:     "established clean seller",
			in:       ProfileInput{TotalSales: 120000, AverageRating: 4.5, TotalReviews: 200, VerifiedReviews: 150, AccountAgeDays: 400},
			score:    40,
			level:    models.RiskLevelMedium,
			patterns: []string{},
		},
		{
			name: "manipulated high volume seller",
			in: ProfileInput{
				TotalSales: 200000, AverageRating: 4.9, TotalReviews: 150, VerifiedReviews: 2,
				AccountAgeDays: 60, ViolationCount: 3, FakeReviewCount: 4,
			},
			score:    71,
			level:    models.RiskLevelHigh,
			patterns: []string{"fake_reviews_detected", "suspiciously_high_rating", "multiple_violations"},
		},
		{
			name:     "new seller with few reviews and poor rating",
			in:       ProfileInput{TotalSales: 150001, AverageRating: 2.5, TotalReviews: 5, VerifiedReviews: 1, AccountAgeDays: 10},
			score:    63,
			level:    models.RiskLevelMedium,
			patterns: []string{"high_revenue_low_reviews"},
		},
		{
			name:     "score clamps at 100",
			in:       ProfileInput{TotalReviews: 3, AverageRating: 1, ViolationCount: 40},
			score:    100,
			level:    models.RiskLevelHigh,
			patterns: []string{"multiple_violations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessProfile("seller-9", tt.in, fixedNow)

			assert.Equal(t, "seller-9", got.SellerID)
			assert.InDelta(t, tt.score, got.RiskScore, 1e-9)
			assert.Equal(t, tt.level, got.RiskLevel)
			assert.Equal(t, tt.patterns, got.Patterns)
		})
	}
}

func TestAssessProfile_FactorBreakdown(t *testing.T) {
	got := AssessProfile("seller-9", ProfileInput{
		TotalSales: 200000, AverageRating: 4.9, TotalReviews: 150, VerifiedReviews: 2,
		AccountAgeDays: 60, ViolationCount: 3, FakeReviewCount: 4,
	}, fixedNow)

	assert.InDelta(t, 42.6, got.Factors.Counterfeit, 1e-9)
	assert.InDelta(t, 56.8, got.Factors.ReviewManipulation, 1e-9)
	assert.InDelta(t, 28.4, got.Factors.PricingAnomaly, 1e-9)
	assert.InDelta(t, 14.2, got.Factors.AccountAge, 1e-9)
	assert.InDelta(t, 35.5, got.Factors.Compliance, 1e-9)
}

func TestAssessProfile_ManipulationWeightWithoutFakes(t *testing.T) {
	got := AssessProfile("seller-9", ProfileInput{TotalSales: 50000, AverageRating: 4.0, TotalReviews: 20, VerifiedReviews: 10, AccountAgeDays: 200}, fixedNow)

	assert.InDelta(t, 15.0, got.Factors.ReviewManipulation, 1e-9)
}
