package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/pkg/security"
	"go.uber.org/zap"
)

const maxNotesLength = 2000

// Service raises and manages moderation alerts
type Service struct {
	repo AlertRepository
	now  func() time.Time
}

// NewService creates a new alert service
func NewService(repo AlertRepository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// RaiseFakeReviewAlert opens an alert for a review classified as fake. It returns nil when an open
// alert already covers the review.
func (s *Service) RaiseFakeReviewAlert(ctx context.Context, data eventbus.ReviewFlaggedData, sourceEvent string) (*models.Alert, error) {
	patterns := data.Patterns
	if patterns == nil {
		patterns = []string{}
	}

	alert := s.newAlert(models.AlertTypeFakeReview, levelForConfidence(data.Confidence), data.SellerID, data.ReviewID)
	alert.Description = fmt.Sprintf("Review %s classified as fake with confidence %.2f", data.ReviewID, data.Confidence)
	alert.RiskScore = data.RiskScore
	alert.SourceEvent = sourceEvent
	alert.Details = map[string]interface{}{
		"confidence":   data.Confidence,
		"authenticity": data.Authenticity,
		"patterns":     patterns,
		"product_id":   data.ProductID,
		"reviewer_id":  data.ReviewerID,
	}

	return s.raise(ctx, alert)
}

// RaiseHighRiskSellerAlert opens an alert for a high risk assessment. Lower levels are ignored.
func (s *Service) RaiseHighRiskSellerAlert(ctx context.Context, data eventbus.SellerRiskAssessedData, sourceEvent string) (*models.Alert, error) {
	if data.RiskLevel != string(models.RiskLevelHigh) {
		return nil, nil
	}

	alert := s.newAlert(models.AlertTypeHighRiskSeller, levelForSellerScore(data.RiskScore), data.SellerID, "")
	alert.Description = fmt.Sprintf("Seller %s assessed as high risk (score %.2f)", data.SellerID, data.RiskScore)
	alert.RiskScore = data.RiskScore
	alert.SourceEvent = sourceEvent
	alert.Details = map[string]interface{}{
		"assessment_id":          data.AssessmentID,
		"total_reviews":          data.TotalReviews,
		"fake_review_percentage": data.FakeReviewPercentage,
		"risk_factors":           data.RiskFactors,
	}

	return s.raise(ctx, alert)
}

// GetAlert returns one alert
func (s *Service) GetAlert(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	return s.repo.GetAlertByID(ctx, id)
}

// ListAlerts lists alerts with an optional status filter
func (s *Service) ListAlerts(ctx context.Context, status models.AlertStatus, limit, offset int) ([]*models.Alert, int64, error) {
	return s.repo.ListAlerts(ctx, status, limit, offset)
}

// UpdateStatus moves an open alert to a new status
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AlertStatus, notes string) (*models.Alert, error) {
	if status == models.AlertStatusPending {
		return nil, ErrInvalidTransition
	}

	alert, err := s.repo.GetAlertByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Status.IsTerminal() {
		return nil, ErrAlertClosed
	}

	notes = security.SanitizeFreeText(notes, maxNotesLength)
	if err := s.repo.UpdateAlertStatus(ctx, id, status, notes); err != nil {
		return nil, fmt.Errorf("update alert status: %w", err)
	}

	now := s.now()
	alert.Status = status
	alert.UpdatedAt = now
	if status.IsTerminal() {
		alert.ResolvedAt = &now
	}
	if notes != "" {
		alert.Notes = notes
	}

	logger.WithContext(ctx).Info("alert status updated",
		zap.String("alert_id", id.String()),
		zap.String("status", string(status)),
	)
	return alert, nil
}

func (s *Service) newAlert(alertType models.AlertType, level models.AlertLevel, sellerID, reviewID string) *models.Alert {
	now := s.now()
	return &models.Alert{
		ID:         uuid.New(),
		AlertType:  alertType,
		AlertLevel: level,
		Status:     models.AlertStatusPending,
		SellerID:   sellerID,
		ReviewID:   reviewID,
		DetectedAt: now,
		UpdatedAt:  now,
	}
}

func (s *Service) raise(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	log := logger.WithContext(ctx).With(
		zap.String("alert_type", string(alert.AlertType)),
		zap.String("seller_id", alert.SellerID),
		zap.String("review_id", alert.ReviewID),
	)

	open, err := s.repo.HasOpenAlert(ctx, alert.AlertType, alert.SellerID, alert.ReviewID)
	if err != nil {
		return nil, err
	}
	if open {
		log.Debug("open alert already exists, skipping")
		return nil, nil
	}

	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	alertsRaised.WithLabelValues(string(alert.AlertType), string(alert.AlertLevel)).Inc()
	log.Info("alert raised",
		zap.String("alert_id", alert.ID.String()),
		zap.String("alert_level", string(alert.AlertLevel)),
	)
	return alert, nil
}
