// Package predictor provides feature encoding and model clients for review scoring.
package predictor

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/pkg/models"
)

// ExtraFeatureCount is the number of numeric features appended after the token slots.
const ExtraFeatureCount = 6

// HashingEncoder maps text to hashed token ids without a fitted vocabulary.
// Layout: SequenceLength token ids (left padded with 0, keeping the last tokens),
// then timeDiff, ipCount, repetition, suspicious phrases, exclamations, generic words.
type HashingEncoder struct {
	sequenceLength int
	vocabularySize int
}

// NewHashingEncoder creates an encoder. vocabularySize must exceed 1; id 0 is padding.
func NewHashingEncoder(sequenceLength, vocabularySize int) *HashingEncoder {
	if sequenceLength <= 0 {
		sequenceLength = 100
	}
	if vocabularySize <= 1 {
		vocabularySize = 10000
	}
	return &HashingEncoder{sequenceLength: sequenceLength, vocabularySize: vocabularySize}
}

// Size returns the encoded vector length.
func (e *HashingEncoder) Size() int {
	return e.sequenceLength + ExtraFeatureCount
}

// Encode implements scoring.FeatureEncoder.
func (e *HashingEncoder) Encode(review models.ReviewInput, features models.TextFeatures) (models.FeatureVector, error) {
	if !utf8.ValidString(review.Text) {
		return nil, fmt.Errorf("%w: review text is not valid UTF-8", scoring.ErrEncodingFailure)
	}

	vec := make(models.FeatureVector, e.Size())

	tokens := tokenize(review.Text)
	if len(tokens) > e.sequenceLength {
		tokens = tokens[len(tokens)-e.sequenceLength:]
	}
	offset := e.sequenceLength - len(tokens)
	for i, tok := range tokens {
		vec[offset+i] = float64(e.tokenID(tok))
	}

	extra := vec[e.sequenceLength:]
	extra[0] = 0 // seconds since the reviewer's previous review; no history is available
	extra[1] = 1 // reviews seen from this source address
	extra[2] = features.RepetitionScore
	extra[3] = float64(features.SuspiciousPhraseCount)
	extra[4] = float64(features.ExclamationCount)
	extra[5] = float64(features.GenericWordCount)

	return vec, nil
}

func (e *HashingEncoder) tokenID(token string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return h.Sum32()%uint32(e.vocabularySize-1) + 1
}

// tokenize lower-cases text and splits on anything that is not a letter, digit or apostrophe.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
