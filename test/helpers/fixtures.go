package helpers

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/models"
)

// BoilerplateReviewText strings together seven stock praise phrases
const BoilerplateReviewText = "Great product, fast shipping, excellent quality, highly recommend, would buy again, perfect transaction, amazing service"

// OrganicReviewText triggers no lexical rules
const OrganicReviewText = "I bought this product last week and it works well. The quality is decent for the price. Shipping took 3 days which is reasonable."

// CreateTestReview creates a review with default values
func CreateTestReview() models.ReviewInput {
	return models.ReviewInput{
		ReviewID:         "review-" + uuid.NewString()[:8],
		ReviewerID:       "reviewer-1",
		ProductID:        "product-1",
		SellerID:         "seller-1",
		Text:             OrganicReviewText,
		Rating:           4,
		SubmittedAt:      time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		SourceAddress:    "203.0.113.7",
		VerifiedPurchase: true,
		AccountAgeDays:   90,
	}
}

// CreateTestReviews creates n reviews for one seller with distinct IDs
func CreateTestReviews(sellerID string, n int) []models.ReviewInput {
	reviews := make([]models.ReviewInput, n)
	for i := range reviews {
		r := CreateTestReview()
		r.ReviewID = fmt.Sprintf("review-%d", i)
		r.SellerID = sellerID
		reviews[i] = r
	}
	return reviews
}

// CreateTestViolation creates a delivery violation that occurred daysAgo days before now
func CreateTestViolation(sellerID string, vType models.ViolationType, severity models.Severity, now time.Time, daysAgo int) *models.DeliveryViolation {
	return &models.DeliveryViolation{
		ID:          uuid.New(),
		SellerID:    sellerID,
		OrderID:     "order-" + uuid.NewString()[:8],
		Type:        vType,
		Severity:    severity,
		Description: string(vType) + " reported by customer",
		OccurredAt:  now.AddDate(0, 0, -daysAgo),
		CreatedAt:   now,
	}
}

// CreateTestAlert creates a pending fake review alert
func CreateTestAlert() *models.Alert {
	now := time.Now()
	return &models.Alert{
		ID:          uuid.New(),
		AlertType:   models.AlertTypeFakeReview,
		AlertLevel:  models.AlertLevelHigh,
		Status:      models.AlertStatusPending,
		SellerID:    "seller-1",
		ReviewID:    "review-1",
		Description: "Review classified as fake with confidence 0.91",
		Details:     map[string]interface{}{"patterns": []interface{}{"bot"}},
		RiskScore:   91,
		DetectedAt:  now,
		UpdatedAt:   now,
	}
}
