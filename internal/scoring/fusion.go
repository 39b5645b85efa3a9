package scoring

import "github.com/richxcame/review-guard/pkg/models"

// boostRule adds Boost to a pattern's base probability when Applies holds.
type boostRule struct {
	Name    string
	Boost   float64
	Applies func(f models.TextFeatures, rating int) bool
}

var botRules = []boostRule{
	{"suspicious_phrases", 0.20, func(f models.TextFeatures, _ int) bool { return f.SuspiciousPhraseCount >= 3 }},
	{"exclamations", 0.15, func(f models.TextFeatures, _ int) bool { return f.ExclamationCount >= 3 }},
	{"generic_words", 0.10, func(f models.TextFeatures, _ int) bool { return f.GenericWordCount >= 4 }},
	{"repetition", 0.15, func(f models.TextFeatures, _ int) bool { return f.RepetitionScore > 0.3 }},
	{"short_five_star", 0.10, func(f models.TextFeatures, rating int) bool { return rating == 5 && f.TotalWords < 10 }},
}

var copyPasteRules = []boostRule{
	{"repetition", 0.25, func(f models.TextFeatures, _ int) bool { return f.RepetitionScore > 0.4 }},
	{"suspicious_phrases", 0.20, func(f models.TextFeatures, _ int) bool { return f.SuspiciousPhraseCount >= 4 }},
	{"repeated_starters", 0.15, func(f models.TextFeatures, _ int) bool { return f.RepeatedStarters >= 2 }},
	{"generic_words", 0.10, func(f models.TextFeatures, _ int) bool { return f.GenericWordCount >= 5 }},
}

// Burst has no lexical rules; its probability passes through unchanged until
// time-series signals are available.
var fusionRules = map[models.PatternKind][]boostRule{
	models.PatternBot:       botRules,
	models.PatternCopyPaste: copyPasteRules,
	models.PatternBurst:     nil,
}

// Boost returns the total additive boost for kind, before clamping.
func Boost(kind models.PatternKind, f models.TextFeatures, rating int) float64 {
	total := 0.0
	for _, rule := range fusionRules[kind] {
		if rule.Applies(f, rating) {
			total += rule.Boost
		}
	}
	return total
}

// TriggeredRules names the rules that fired for kind.
func TriggeredRules(kind models.PatternKind, f models.TextFeatures, rating int) []string {
	var names []string
	for _, rule := range fusionRules[kind] {
		if rule.Applies(f, rating) {
			names = append(names, rule.Name)
		}
	}
	return names
}

// Enhance fuses a predictor probability with lexical boosts and applies PatternThreshold.
func Enhance(kind models.PatternKind, base float64, f models.TextFeatures, rating int) models.PatternVerdict {
	confidence := clamp(base+Boost(kind, f, rating), 0, 1)
	return models.PatternVerdict{
		Detected:   confidence > PatternThreshold,
		Confidence: confidence,
	}
}
