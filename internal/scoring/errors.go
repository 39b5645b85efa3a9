package scoring

import "errors"

var (
	// ErrEncodingFailure means the review could not be turned into a feature vector.
	ErrEncodingFailure = errors.New("feature encoding failed")
	// ErrPredictorFailure means a predictor signal was unavailable or out of range.
	ErrPredictorFailure = errors.New("predictor unavailable")
)
