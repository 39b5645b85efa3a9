package scoring

import "math"

// Credibility scores the reviewer from account metadata, starting at 50.
func Credibility(verifiedPurchases int, accountAgeDays float64, priorFakeReviews int) int {
	score := 50.0
	score += math.Min(float64(verifiedPurchases)*5, 30)
	score += math.Min(math.Max(accountAgeDays, 0)/30, 20)
	score -= float64(priorFakeReviews) * 20

	return int(math.Round(clamp(score, 0, 100)))
}
