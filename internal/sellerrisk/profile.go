package sellerrisk

import (
	"math"
	"time"
)

// Profile scoring adjustments, applied to a neutral base of 50.
const (
	profileBase             = 50.0
	perViolation            = 2.0
	establishedSales        = 100000.0
	establishedRating       = 4.2
	establishedBonus        = -5.0
	fewReviews              = 10
	fewReviewsPenalty       = 3.0
	highVolumeSales         = 150000.0
	fewVerified             = 5
	unverifiedVolumePenalty = 5.0
	longTenureMonths        = 12.0
	cleanTenureBonus        = -5.0
	poorRating              = 3.0
	poorRatingPenalty       = 5.0
	fakeReviewPenalty       = 15.0
)

// AssessProfile scores a seller from account metadata alone.
func AssessProfile(sellerID string, in ProfileInput, now time.Time) *ProfileRiskAssessment {
	score := profileBase + perViolation*float64(in.ViolationCount)

	if in.TotalSales >= establishedSales && in.AverageRating >= establishedRating {
		score += establishedBonus
	}
	if in.TotalReviews < fewReviews {
		score += fewReviewsPenalty
	}
	if in.TotalSales > highVolumeSales && in.VerifiedReviews < fewVerified {
		score += unverifiedVolumePenalty
	}
	if in.AccountAgeDays/30 > longTenureMonths && in.ViolationCount == 0 {
		score += cleanTenureBonus
	}
	if in.AverageRating < poorRating {
		score += poorRatingPenalty
	}
	if in.FakeReviewCount > 0 {
		score += fakeReviewPenalty
	}
	score = clampScore(score)

	manipulation := 0.3
	if in.FakeReviewCount > 0 {
		manipulation = 0.8
	}

	return &ProfileRiskAssessment{
		SellerID:  sellerID,
		RiskScore: round2(score),
		RiskLevel: LevelFor(score),
		Factors: FactorBreakdown{
			Counterfeit:        weighted(score, 0.6),
			ReviewManipulation: weighted(score, manipulation),
			PricingAnomaly:     weighted(score, 0.4),
			AccountAge:         weighted(score, 0.2),
			Compliance:         weighted(score, 0.5),
		},
		Patterns:   profilePatterns(in),
		AssessedAt: now,
	}
}

func weighted(score, weight float64) float64 {
	return round2(math.Min(score*weight, 100))
}

func profilePatterns(in ProfileInput) []string {
	patterns := []string{}
	if in.FakeReviewCount > 0 {
		patterns = append(patterns, "fake_reviews_detected")
	}
	if in.TotalSales > 100000 && in.TotalReviews < 50 {
		patterns = append(patterns, "high_revenue_low_reviews")
	}
	if in.AverageRating > 4.8 && in.TotalReviews > 100 {
		patterns = append(patterns, "suspiciously_high_rating")
	}
	if in.ViolationCount > 2 {
		patterns = append(patterns, "multiple_violations")
	}
	return patterns
}
