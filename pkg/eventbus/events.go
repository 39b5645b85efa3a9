package eventbus

import "time"

// ReviewFlaggedData is published when a review is classified as fake.
type ReviewFlaggedData struct {
	ReviewID     string    `json:"review_id,omitempty"`
	ReviewerID   string    `json:"reviewer_id,omitempty"`
	ProductID    string    `json:"product_id,omitempty"`
	SellerID     string    `json:"seller_id,omitempty"`
	Confidence   float64   `json:"confidence"`
	RiskScore    float64   `json:"risk_score"`
	Authenticity int       `json:"authenticity"`
	Patterns     []string  `json:"patterns"`
	FlaggedAt    time.Time `json:"flagged_at"`
}

// SellerRiskAssessedData is published after every seller assessment.
type SellerRiskAssessedData struct {
	AssessmentID         string    `json:"assessment_id"`
	SellerID             string    `json:"seller_id"`
	TotalReviews         int       `json:"total_reviews"`
	FakeReviewPercentage float64   `json:"fake_review_percentage"`
	RiskScore            float64   `json:"risk_score"`
	RiskLevel            string    `json:"risk_level"`
	RiskFactors          []string  `json:"risk_factors"`
	AssessedAt           time.Time `json:"assessed_at"`
}

// NewReviewFlaggedEvent wraps data in an envelope of type review.flagged.
func NewReviewFlaggedEvent(source string, data ReviewFlaggedData) (*Event, error) {
	return NewEvent(eventTypeReviewFlagged, source, data)
}

// NewSellerRiskAssessedEvent wraps data in an envelope of type seller.risk_assessed.
func NewSellerRiskAssessedEvent(source string, data SellerRiskAssessedData) (*Event, error) {
	return NewEvent(eventTypeSellerRiskAssessed, source, data)
}

// IsReviewFlagged reports whether event carries ReviewFlaggedData.
func IsReviewFlagged(event *Event) bool {
	return event.Type == eventTypeReviewFlagged
}

// IsSellerRiskAssessed reports whether event carries SellerRiskAssessedData.
func IsSellerRiskAssessed(event *Event) bool {
	return event.Type == eventTypeSellerRiskAssessed
}
