// Package textpattern extracts lexical authenticity signals from review text.
package textpattern

import (
	"strings"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/richxcame/review-guard/pkg/models"
)

// SuspiciousPhrases is the boilerplate phrase list matched against review text.
var SuspiciousPhrases = []string{
	"great product", "fast shipping", "excellent quality", "highly recommend",
	"would buy again", "perfect transaction", "amazing service", "best purchase",
	"love it", "excellent product", "great service", "fast delivery",
	"good quality", "satisfied with", "recommend to friends", "thank you seller",
}

// GenericWords is the generic-praise vocabulary.
var GenericWords = []string{
	"good", "great", "excellent", "amazing", "perfect", "best", "love", "recommend",
}

// Analyzer computes TextFeatures. It is safe for concurrent use.
type Analyzer struct {
	phrases  *ahocorasick.Matcher
	generic  *ahocorasick.Matcher
	positive *ahocorasick.Matcher
	negative *ahocorasick.Matcher
}

// NewAnalyzer builds the phrase and vocabulary matchers.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		phrases:  ahocorasick.NewStringMatcher(SuspiciousPhrases),
		generic:  ahocorasick.NewStringMatcher(GenericWords),
		positive: ahocorasick.NewStringMatcher(PositiveWords),
		negative: ahocorasick.NewStringMatcher(NegativeWords),
	}
}

// Analyze extracts features from text. Text that is not valid UTF-8 yields zero features.
func (a *Analyzer) Analyze(text string) models.TextFeatures {
	if !utf8.ValidString(text) {
		return models.TextFeatures{}
	}

	lower := strings.ToLower(text)
	words := strings.Fields(lower)

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}

	features := models.TextFeatures{
		TotalWords:            len(words),
		UniqueWords:           len(unique),
		SuspiciousPhraseCount: distinctHits(a.phrases, lower),
		ExclamationCount:      strings.Count(text, "!"),
		GenericWordCount:      distinctHits(a.generic, lower),
		RepeatedStarters:      repeatedStarters(text),
	}
	if len(words) > 0 {
		features.RepetitionScore = 1 - float64(len(unique))/float64(len(words))
	}

	return features
}

// WordCount returns the whitespace-delimited word count of text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// distinctHits counts how many dictionary entries occur in text at least once.
func distinctHits(m *ahocorasick.Matcher, text string) int {
	hits := m.MatchThreadSafe([]byte(text))
	if len(hits) < 2 {
		return len(hits)
	}
	seen := make(map[int]struct{}, len(hits))
	for _, h := range hits {
		seen[h] = struct{}{}
	}
	return len(seen)
}

func repeatedStarters(text string) int {
	starters := 0
	distinct := make(map[string]struct{})
	for _, sentence := range strings.Split(text, ".") {
		fields := strings.Fields(sentence)
		if len(fields) == 0 {
			continue
		}
		starters++
		distinct[strings.ToLower(fields[0])] = struct{}{}
	}
	return starters - len(distinct)
}
