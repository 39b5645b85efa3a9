package predictor

import (
	"context"
	"math"

	"github.com/richxcame/review-guard/pkg/models"
)

// HeuristicPredictor returns fixed baseline probabilities. It stands in for a model service
// so that scoring is driven by the lexical rules alone.
type HeuristicPredictor struct {
	baselines map[models.PatternKind]float64
}

// NewHeuristicPredictor returns baseline for every kind.
func NewHeuristicPredictor(baseline float64) *HeuristicPredictor {
	baseline = unitInterval(baseline)
	baselines := make(map[models.PatternKind]float64, len(models.PatternKinds))
	for _, kind := range models.PatternKinds {
		baselines[kind] = baseline
	}
	return &HeuristicPredictor{baselines: baselines}
}

// WithBaseline returns a copy with the baseline for kind overridden. The receiver is not
// modified, so a predictor already shared between goroutines stays safe to read.
func (p *HeuristicPredictor) WithBaseline(kind models.PatternKind, baseline float64) *HeuristicPredictor {
	baselines := make(map[models.PatternKind]float64, len(p.baselines)+1)
	for k, v := range p.baselines {
		baselines[k] = v
	}
	baselines[kind] = unitInterval(baseline)
	return &HeuristicPredictor{baselines: baselines}
}

func unitInterval(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Score implements scoring.Predictor.
func (p *HeuristicPredictor) Score(ctx context.Context, kind models.PatternKind, vector models.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.baselines[kind], nil
}
