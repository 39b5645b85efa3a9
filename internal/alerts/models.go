package alerts

import "github.com/richxcame/review-guard/pkg/models"

// Level cut-offs for fake review alerts, by classifier confidence.
const (
	criticalConfidence = 0.9
	highConfidence     = 0.75
	mediumConfidence   = 0.6

	criticalSellerScore = 90.0
)

// UpdateStatusRequest moves an alert through moderation
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,alert_status"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// ListQuery filters the alert list
type ListQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,alert_status"`
}

func levelForConfidence(confidence float64) models.AlertLevel {
	switch {
	case confidence >= criticalConfidence:
		return models.AlertLevelCritical
	case confidence >= highConfidence:
		return models.AlertLevelHigh
	case confidence >= mediumConfidence:
		return models.AlertLevelMedium
	default:
		return models.AlertLevelLow
	}
}

func levelForSellerScore(score float64) models.AlertLevel {
	if score >= criticalSellerScore {
		return models.AlertLevelCritical
	}
	return models.AlertLevelHigh
}
