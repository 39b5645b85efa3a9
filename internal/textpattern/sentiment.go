package textpattern

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/richxcame/review-guard/pkg/models"
)

var (
	// PositiveWords raise the lexical polarity.
	PositiveWords = []string{"good", "great", "excellent", "amazing", "love", "perfect", "best", "wonderful"}
	// NegativeWords lower it.
	NegativeWords = []string{"bad", "terrible", "awful", "hate", "worst", "disappointing", "poor"}
)

// SentimentResult is an advisory polarity label with a score in [-1, 1].
type SentimentResult struct {
	Label models.Sentiment
	Score float64
}

// Sentiment labels text by whichever word list has more distinct hits.
func (a *Analyzer) Sentiment(text string) SentimentResult {
	if !utf8.ValidString(text) {
		return SentimentResult{Label: models.SentimentNeutral}
	}

	lower := strings.ToLower(text)
	pos := distinctHits(a.positive, lower)
	neg := distinctHits(a.negative, lower)

	switch {
	case pos > neg:
		return SentimentResult{Label: models.SentimentPositive, Score: math.Min(0.8+0.1*float64(pos), 1.0)}
	case neg > pos:
		return SentimentResult{Label: models.SentimentNegative, Score: math.Max(-0.8-0.1*float64(neg), -1.0)}
	default:
		return SentimentResult{Label: models.SentimentNeutral, Score: 0}
	}
}
