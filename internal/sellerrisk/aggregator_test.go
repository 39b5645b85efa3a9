package sellerrisk

import (
	"math/rand"
	"testing"
	"time"

	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const shortFakeText = "Great product! Love it!"

// sellerFixture builds n organic reviews of which the first fake are short, fake and
// flagged as copy-paste and bot.
func sellerFixture(n, fake int) ([]models.ReviewInput, []models.ReviewResult) {
	inputs := helpers.CreateTestReviews("seller-1", n)
	results := make([]models.ReviewResult, n)
	for i := range results {
		results[i] = models.ReviewResult{ReviewID: inputs[i].ReviewID}
		if i < fake {
			inputs[i].Text = shortFakeText
			results[i].IsFake = true
			results[i].CopyPaste = models.PatternVerdict{Detected: true, Confidence: 0.6}
			results[i].Bot = models.PatternVerdict{Detected: true, Confidence: 0.7}
		}
	}
	return inputs, results
}

func TestAggregate_Empty(t *testing.T) {
	a := Aggregate("seller-1", nil, nil, fixedNow)

	assert.Equal(t, 0, a.TotalReviews)
	assert.Equal(t, 0.0, a.RiskScore)
	assert.Equal(t, models.RiskLevelLow, a.RiskLevel)
	assert.Empty(t, a.RiskFactors)
	assert.NotNil(t, a.RiskFactors)
	assert.Equal(t, fixedNow, a.GeneratedAt)
}

func TestAggregate_SixOfTenFake(t *testing.T) {
	inputs, results := sellerFixture(10, 6)

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 10, a.TotalReviews)
	assert.Equal(t, 6, a.FakeReviews)
	assert.Equal(t, 60.0, a.FakeReviewPercentage)
	assert.Equal(t, models.PatternCounts{CopyPaste: 6, Bot: 6, ShortReviews: 6}, a.Patterns)
	// 0.4*60 + 0.1*(60+60) + 0.2*60
	assert.InDelta(t, 48.0, a.RiskScore, 1e-9)
	assert.Equal(t, models.RiskLevelMedium, a.RiskLevel)
	assert.Equal(t, []string{
		"High fake review rate: 60.0%",
		"Copy-paste reviews detected: 6",
		"Bot activity detected: 6",
		"High percentage of short reviews: 6",
	}, a.RiskFactors)
	helpers.AssertAssessmentInRange(t, a)
}

func TestAggregate_CleanSeller(t *testing.T) {
	inputs, results := sellerFixture(8, 0)

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 0.0, a.RiskScore)
	assert.Equal(t, models.RiskLevelLow, a.RiskLevel)
	assert.Empty(t, a.RiskFactors)
}

func TestAggregate_FakeRateAtFiftyIsNotAFactor(t *testing.T) {
	inputs, results := sellerFixture(10, 5)

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 50.0, a.FakeReviewPercentage)
	assert.NotContains(t, a.RiskFactors, "High fake review rate: 50.0%")
}

func TestAggregate_BurstFactor(t *testing.T) {
	inputs, results := sellerFixture(4, 0)
	results[2].Burst = models.PatternVerdict{Detected: true, Confidence: 0.5}

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 1, a.Patterns.Burst)
	assert.Equal(t, []string{"Burst review patterns detected: 1"}, a.RiskFactors)
	assert.InDelta(t, 2.5, a.RiskScore, 1e-9)
}

func TestAggregate_VolumePenalty(t *testing.T) {
	inputs, results := sellerFixture(51, 0)

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 5.0, a.RiskScore)
	assert.Equal(t, models.RiskLevelLow, a.RiskLevel)
}

func TestAggregate_DegradedCountedInTotalOnly(t *testing.T) {
	inputs, results := sellerFixture(4, 2)
	results[0].Degraded = true

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 4, a.TotalReviews)
	assert.Equal(t, 1, a.FakeReviews)
	assert.Equal(t, 25.0, a.FakeReviewPercentage)
	assert.Equal(t, 1, a.Patterns.ShortReviews)
}

func TestAggregate_PartialResultCountsAvailableSignals(t *testing.T) {
	inputs, results := sellerFixture(1, 1)
	results[0].Unavailable = []models.PatternKind{models.PatternBurst}

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 1, a.FakeReviews)
	assert.Equal(t, 100.0, a.FakeReviewPercentage)
	assert.Equal(t, models.PatternCounts{CopyPaste: 1, Bot: 1, ShortReviews: 1}, a.Patterns)
	// 0.4*100 + 0.1*(100+100) + 0.2*100
	assert.InDelta(t, 80.0, a.RiskScore, 1e-9)
	assert.Equal(t, models.RiskLevelHigh, a.RiskLevel)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	inputs, results := sellerFixture(3, 0)
	results[0].IsFake = true

	a := Aggregate("seller-1", inputs, results, fixedNow)

	assert.Equal(t, 33.33, a.FakeReviewPercentage)
	assert.Equal(t, 13.33, a.RiskScore)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	inputs, results := sellerFixture(20, 7)
	results[12].Burst.Detected = true
	want := Aggregate("seller-1", inputs, results, fixedNow)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		perm := rng.Perm(len(inputs))
		shuffledIn := make([]models.ReviewInput, len(inputs))
		shuffledRes := make([]models.ReviewResult, len(results))
		for to, from := range perm {
			shuffledIn[to] = inputs[from]
			shuffledRes[to] = results[from]
		}

		got := Aggregate("seller-1", shuffledIn, shuffledRes, fixedNow)
		require.Equal(t, want, got)
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, models.RiskLevelLow, LevelFor(39.99))
	assert.Equal(t, models.RiskLevelMedium, LevelFor(40))
	assert.Equal(t, models.RiskLevelMedium, LevelFor(69.99))
	assert.Equal(t, models.RiskLevelHigh, LevelFor(70))
}
