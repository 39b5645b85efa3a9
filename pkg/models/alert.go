package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType names what raised an alert
type AlertType string

const (
	AlertTypeFakeReview     AlertType = "fake_review"
	AlertTypeHighRiskSeller AlertType = "high_risk_seller"
)

// AlertLevel ranks alert urgency
type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "low"
	AlertLevelMedium   AlertLevel = "medium"
	AlertLevelHigh     AlertLevel = "high"
	AlertLevelCritical AlertLevel = "critical"
)

// AlertStatus tracks review of an alert by staff
type AlertStatus string

const (
	AlertStatusPending       AlertStatus = "pending"
	AlertStatusInvestigating AlertStatus = "investigating"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusDismissed     AlertStatus = "dismissed"
)

// IsTerminal reports whether no further transitions are allowed
func (s AlertStatus) IsTerminal() bool {
	return s == AlertStatusResolved || s == AlertStatusDismissed
}

// Alert is a flagged review or seller awaiting moderation
type Alert struct {
	ID          uuid.UUID              `json:"id" db:"id"`
	AlertType   AlertType              `json:"alert_type" db:"alert_type"`
	AlertLevel  AlertLevel             `json:"alert_level" db:"alert_level"`
	Status      AlertStatus            `json:"status" db:"status"`
	SellerID    string                 `json:"seller_id,omitempty" db:"seller_id"`
	ReviewID    string                 `json:"review_id,omitempty" db:"review_id"`
	Description string                 `json:"description" db:"description"`
	Details     map[string]interface{} `json:"details,omitempty" db:"details"`
	RiskScore   float64                `json:"risk_score" db:"risk_score"`
	SourceEvent string                 `json:"source_event,omitempty" db:"source_event"`
	DetectedAt  time.Time              `json:"detected_at" db:"detected_at"`
	UpdatedAt   time.Time              `json:"updated_at" db:"updated_at"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty" db:"resolved_at"`
	Notes       string                 `json:"notes,omitempty" db:"notes"`
}
