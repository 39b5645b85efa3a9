package helpers

import (
	"testing"

	"github.com/richxcame/review-guard/pkg/models"
	"github.com/stretchr/testify/assert"
)

// AssertResultInRange asserts every score in a result respects its declared range
func AssertResultInRange(t *testing.T, r models.ReviewResult) {
	t.Helper()
	assert.GreaterOrEqual(t, r.Confidence, 0.0)
	assert.LessOrEqual(t, r.Confidence, 1.0)
	assert.GreaterOrEqual(t, r.RiskScore, 0.0)
	assert.LessOrEqual(t, r.RiskScore, 100.0)
	assert.GreaterOrEqual(t, r.SentimentScore, -1.0)
	assert.LessOrEqual(t, r.SentimentScore, 1.0)
	assert.GreaterOrEqual(t, r.Authenticity, 0)
	assert.LessOrEqual(t, r.Authenticity, 100)
	assert.GreaterOrEqual(t, r.Credibility, 0)
	assert.LessOrEqual(t, r.Credibility, 100)
	for _, v := range []models.PatternVerdict{r.Burst, r.CopyPaste, r.Bot} {
		assert.GreaterOrEqual(t, v.Confidence, 0.0)
		assert.LessOrEqual(t, v.Confidence, 1.0)
	}
}

// AssertAssessmentInRange asserts a seller assessment respects its declared ranges
func AssertAssessmentInRange(t *testing.T, a *models.SellerRiskAssessment) {
	t.Helper()
	assert.GreaterOrEqual(t, a.RiskScore, 0.0)
	assert.LessOrEqual(t, a.RiskScore, 100.0)
	assert.GreaterOrEqual(t, a.FakeReviewPercentage, 0.0)
	assert.LessOrEqual(t, a.FakeReviewPercentage, 100.0)
	assert.Contains(t, []models.RiskLevel{models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh}, a.RiskLevel)
}
