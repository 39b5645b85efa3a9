package scoring

import (
	"testing"

	"github.com/richxcame/review-guard/internal/textpattern"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/test/helpers"
	"github.com/stretchr/testify/assert"
)

func TestEnhance_BoilerplateBoostsCopyPaste(t *testing.T) {
	f := textpattern.NewAnalyzer().Analyze(helpers.BoilerplateReviewText)

	base := 0.10
	v := Enhance(models.PatternCopyPaste, base, f, 5)

	assert.GreaterOrEqual(t, v.Confidence-base, 0.20-1e-9)
	assert.True(t, v.Detected)
	assert.ElementsMatch(t, []string{"suspicious_phrases", "generic_words"}, TriggeredRules(models.PatternCopyPaste, f, 5))
}

func TestEnhance_OrganicReviewPassesThrough(t *testing.T) {
	f := textpattern.NewAnalyzer().Analyze(helpers.OrganicReviewText)

	for _, kind := range []models.PatternKind{models.PatternBurst, models.PatternCopyPaste, models.PatternBot} {
		assert.Equal(t, 0.0, Boost(kind, f, 4), "kind %s", kind)
		assert.Empty(t, TriggeredRules(kind, f, 4))

		v := Enhance(kind, 0.27, f, 4)
		assert.Equal(t, 0.27, v.Confidence)
		assert.False(t, v.Detected)
	}
}

func TestEnhance_Saturates(t *testing.T) {
	f := models.TextFeatures{
		RepetitionScore:       0.9,
		SuspiciousPhraseCount: 10,
		ExclamationCount:      10,
		GenericWordCount:      8,
		RepeatedStarters:      5,
		TotalWords:            3,
	}

	assert.InDelta(t, 0.70, Boost(models.PatternBot, f, 5), 1e-9)
	assert.InDelta(t, 0.70, Boost(models.PatternCopyPaste, f, 5), 1e-9)

	for _, kind := range []models.PatternKind{models.PatternCopyPaste, models.PatternBot} {
		v := Enhance(kind, 0.95, f, 5)
		assert.Equal(t, 1.0, v.Confidence)
		assert.True(t, v.Detected)
	}
}

func TestEnhance_BurstIgnoresLexicalSignals(t *testing.T) {
	f := models.TextFeatures{SuspiciousPhraseCount: 10, ExclamationCount: 10, RepetitionScore: 0.9}

	v := Enhance(models.PatternBurst, 0.2, f, 5)
	assert.Equal(t, 0.2, v.Confidence)
	assert.False(t, v.Detected)
}

func TestEnhance_ThresholdIsStrict(t *testing.T) {
	v := Enhance(models.PatternBurst, PatternThreshold, models.TextFeatures{}, 4)
	assert.False(t, v.Detected)

	v = Enhance(models.PatternBurst, PatternThreshold+0.001, models.TextFeatures{}, 4)
	assert.True(t, v.Detected)
}

func TestBoost_BotRules(t *testing.T) {
	tests := []struct {
		name     string
		features models.TextFeatures
		rating   int
		want     float64
	}{
		{"three phrases", models.TextFeatures{SuspiciousPhraseCount: 3, TotalWords: 20}, 4, 0.20},
		{"two phrases", models.TextFeatures{SuspiciousPhraseCount: 2, TotalWords: 20}, 4, 0},
		{"three exclamations", models.TextFeatures{ExclamationCount: 3, TotalWords: 20}, 4, 0.15},
		{"four generic", models.TextFeatures{GenericWordCount: 4, TotalWords: 20}, 4, 0.10},
		{"repetition above 0.3", models.TextFeatures{RepetitionScore: 0.31, TotalWords: 20}, 4, 0.15},
		{"repetition at 0.3", models.TextFeatures{RepetitionScore: 0.3, TotalWords: 20}, 4, 0},
		{"short five star", models.TextFeatures{TotalWords: 9}, 5, 0.10},
		{"short four star", models.TextFeatures{TotalWords: 9}, 4, 0},
		{"ten words five star", models.TextFeatures{TotalWords: 10}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Boost(models.PatternBot, tt.features, tt.rating), 1e-9)
		})
	}
}

func TestBoost_CopyPasteRules(t *testing.T) {
	tests := []struct {
		name     string
		features models.TextFeatures
		want     float64
	}{
		{"repetition above 0.4", models.TextFeatures{RepetitionScore: 0.41}, 0.25},
		{"four phrases", models.TextFeatures{SuspiciousPhraseCount: 4}, 0.20},
		{"three phrases", models.TextFeatures{SuspiciousPhraseCount: 3}, 0},
		{"two repeated starters", models.TextFeatures{RepeatedStarters: 2}, 0.15},
		{"five generic", models.TextFeatures{GenericWordCount: 5}, 0.10},
		{"four generic", models.TextFeatures{GenericWordCount: 4}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Boost(models.PatternCopyPaste, tt.features, 5), 1e-9)
		})
	}
}
