package scoring

import "math"

// Authenticity penalties.
const (
	fakePenaltyWeight     = 50.0
	patternPenalty        = 15.0
	shortTextPenalty      = 20.0
	longTextPenalty       = 10.0
	extremeRatingPenalty  = 15.0
	shortTextWords        = 5
	longTextWords         = 500
	extremeRatingMaxWords = 10
)

// Authenticity scores how genuine a review looks, from 100 down to 0.
func Authenticity(isFake bool, confidence float64, detectedPatterns, wordCount, rating int) int {
	score := 100.0

	if isFake {
		score -= confidence * fakePenaltyWeight
	}
	score -= float64(detectedPatterns) * patternPenalty

	if wordCount < shortTextWords {
		score -= shortTextPenalty
	} else if wordCount > longTextWords {
		score -= longTextPenalty
	}

	if (rating == 1 || rating == 5) && wordCount < extremeRatingMaxWords {
		score -= extremeRatingPenalty
	}

	return int(math.Round(clamp(score, 0, 100)))
}
