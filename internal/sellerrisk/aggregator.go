package sellerrisk

import (
	"fmt"
	"time"

	"github.com/richxcame/review-guard/internal/textpattern"
	"github.com/richxcame/review-guard/pkg/models"
)

// Aggregation weights.
const (
	fakeWeight         = 0.4
	patternWeight      = 0.1
	shortWeight        = 0.2
	volumePenalty      = 5.0
	volumeThreshold    = 50
	fakeFactorPct      = 50.0
	shortFactorShare   = 0.3
	shortReviewMaxWord = 5
)

// Aggregate folds per-review results into one seller assessment. inputs and results are paired
// by index. Degraded results count towards the total only. Partial results count for the
// signals that were available. The fold is a sum, so input order does not change the outcome.
func Aggregate(sellerID string, inputs []models.ReviewInput, results []models.ReviewResult, now time.Time) *models.SellerRiskAssessment {
	a := &models.SellerRiskAssessment{
		SellerID:    sellerID,
		RiskLevel:   models.RiskLevelLow,
		RiskFactors: []string{},
		GeneratedAt: now,
	}

	total := len(inputs)
	if total == 0 {
		return a
	}
	a.TotalReviews = total

	for i := range inputs {
		if i >= len(results) || results[i].Degraded {
			continue
		}
		r := results[i]
		if r.IsFake {
			a.FakeReviews++
		}
		if r.Burst.Detected {
			a.Patterns.Burst++
		}
		if r.CopyPaste.Detected {
			a.Patterns.CopyPaste++
		}
		if r.Bot.Detected {
			a.Patterns.Bot++
		}
		if textpattern.WordCount(inputs[i].Text) < shortReviewMaxWord {
			a.Patterns.ShortReviews++
		}
	}

	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }
	fakePct := pct(a.FakeReviews)

	if fakePct > fakeFactorPct {
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf("High fake review rate: %.1f%%", fakePct))
	}
	if a.Patterns.Burst > 0 {
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf("Burst review patterns detected: %d", a.Patterns.Burst))
	}
	if a.Patterns.CopyPaste > 0 {
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf("Copy-paste reviews detected: %d", a.Patterns.CopyPaste))
	}
	if a.Patterns.Bot > 0 {
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf("Bot activity detected: %d", a.Patterns.Bot))
	}
	if float64(a.Patterns.ShortReviews) > float64(total)*shortFactorShare {
		a.RiskFactors = append(a.RiskFactors, fmt.Sprintf("High percentage of short reviews: %d", a.Patterns.ShortReviews))
	}

	score := fakeWeight * fakePct
	score += patternWeight * (pct(a.Patterns.Burst) + pct(a.Patterns.CopyPaste) + pct(a.Patterns.Bot))
	score += shortWeight * pct(a.Patterns.ShortReviews)
	if total > volumeThreshold {
		score += volumePenalty
	}
	score = clampScore(score)

	a.FakeReviewPercentage = round2(fakePct)
	a.RiskScore = round2(score)
	a.RiskLevel = LevelFor(score)
	return a
}
