package sellerrisk

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/internal/scoring"
	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/logger"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/pkg/security"
	"github.com/richxcame/review-guard/pkg/storage"
	"github.com/richxcame/review-guard/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	eventSource          = "seller-risk"
	maxDescriptionLength = 2000
)

// Service assesses seller risk from reviews, profile metadata and delivery violations
type Service struct {
	scorer    ReviewScorer
	repo      RepositoryInterface
	publisher scoring.EventPublisher
	archive   ReportArchive
	now       func() time.Time
}

// NewService creates a seller risk service. repo and publisher may be nil.
func NewService(scorer ReviewScorer, repo RepositoryInterface, publisher scoring.EventPublisher) *Service {
	return &Service{
		scorer:    scorer,
		repo:      repo,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithArchive enables report archiving
func (s *Service) WithArchive(archive ReportArchive) *Service {
	s.archive = archive
	return s
}

// AssessSeller scores every review and folds the results into one assessment. It always returns a
// usable assessment; storage and publishing failures are logged.
func (s *Service) AssessSeller(ctx context.Context, sellerID string, reviews []models.ReviewInput) *models.SellerRiskAssessment {
	ctx, span := tracing.Tracer("review-guard/sellerrisk").Start(ctx, "sellerrisk.AssessSeller")
	defer span.End()

	inputs := make([]models.ReviewInput, len(reviews))
	for i, r := range reviews {
		if r.SellerID == "" {
			r.SellerID = sellerID
		}
		inputs[i] = r
	}

	results := s.scorer.ScoreBatch(ctx, inputs)
	assessment := Aggregate(sellerID, inputs, results, s.now())
	assessment.ID = uuid.New()

	span.SetAttributes(
		attribute.String("seller.id", sellerID),
		attribute.Int("seller.reviews", assessment.TotalReviews),
		attribute.Float64("seller.risk_score", assessment.RiskScore),
	)
	assessmentsTotal.WithLabelValues(string(assessment.RiskLevel)).Inc()
	assessmentScore.Observe(assessment.RiskScore)

	log := logger.WithContext(ctx).With(zap.String("seller_id", sellerID))
	log.Info("seller risk assessed",
		zap.Int("total_reviews", assessment.TotalReviews),
		zap.Int("fake_reviews", assessment.FakeReviews),
		zap.Float64("risk_score", assessment.RiskScore),
		zap.String("risk_level", string(assessment.RiskLevel)),
	)

	if s.repo != nil {
		if err := s.repo.SaveAssessment(ctx, assessment); err != nil {
			persistenceFailures.Inc()
			tracing.RecordError(span, err)
			log.Error("failed to save seller assessment", zap.Error(err))
		}
	}

	if s.archive != nil {
		if _, err := s.archive.Archive(ctx, assessment); err != nil {
			archiveFailures.Inc()
			log.Warn("failed to archive seller assessment", zap.Error(err))
		}
	}

	s.publishAssessed(ctx, assessment)
	return assessment
}

// ReportURL returns a download link for an archived assessment report
func (s *Service) ReportURL(ctx context.Context, sellerID string, assessmentID uuid.UUID) (*storage.PresignedURL, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	link, err := s.archive.ReportURL(ctx, sellerID, assessmentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	return link, err
}

// GetRiskHistory lists stored assessments for a seller, newest first
func (s *Service) GetRiskHistory(ctx context.Context, sellerID string, limit, offset int) ([]*models.SellerRiskAssessment, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrStorageDisabled
	}
	return s.repo.GetRiskHistory(ctx, sellerID, limit, offset)
}

// ProfileRisk scores a seller from profile metadata
func (s *Service) ProfileRisk(sellerID string, in ProfileInput) *ProfileRiskAssessment {
	return AssessProfile(sellerID, in, s.now())
}

// RecordViolation stores a delivery violation against a seller
func (s *Service) RecordViolation(ctx context.Context, sellerID string, req *ViolationRequest) (*models.DeliveryViolation, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}

	now := s.now()
	v := &models.DeliveryViolation{
		ID:          uuid.New(),
		SellerID:    sellerID,
		OrderID:     req.OrderID,
		CustomerID:  req.CustomerID,
		Type:        models.ViolationType(req.Type),
		Severity:    models.Severity(req.Severity),
		Description: security.SanitizeFreeText(req.Description, maxDescriptionLength),
		OrderValue:  req.OrderValue,
		OccurredAt:  now,
		CreatedAt:   now,
	}
	if req.OccurredAt != nil {
		v.OccurredAt = req.OccurredAt.UTC()
	}

	if err := s.repo.CreateViolation(ctx, v); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("delivery violation recorded",
		zap.String("seller_id", sellerID),
		zap.String("violation_type", req.Type),
		zap.String("severity", req.Severity),
	)
	return v, nil
}

// ListViolations lists a seller's violations, newest first
func (s *Service) ListViolations(ctx context.Context, sellerID string, limit, offset int) ([]*models.DeliveryViolation, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrStorageDisabled
	}
	return s.repo.GetViolationsBySeller(ctx, sellerID, limit, offset)
}

// ViolationRisk computes delivery risk over all of a seller's violations
func (s *Service) ViolationRisk(ctx context.Context, sellerID string) (*DeliveryRisk, error) {
	if s.repo == nil {
		return nil, ErrStorageDisabled
	}
	violations, err := s.repo.GetAllViolationsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return ComputeDeliveryRisk(sellerID, violations, s.now()), nil
}

func (s *Service) publishAssessed(ctx context.Context, a *models.SellerRiskAssessment) {
	if s.publisher == nil {
		return
	}

	evt, err := eventbus.NewSellerRiskAssessedEvent(eventSource, eventbus.SellerRiskAssessedData{
		AssessmentID:         a.ID.String(),
		SellerID:             a.SellerID,
		TotalReviews:         a.TotalReviews,
		FakeReviewPercentage: a.FakeReviewPercentage,
		RiskScore:            a.RiskScore,
		RiskLevel:            string(a.RiskLevel),
		RiskFactors:          a.RiskFactors,
		AssessedAt:           a.GeneratedAt,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, eventbus.SubjectSellerRiskAssessed, evt)
	}
	if err != nil {
		logger.WithContext(ctx).Warn("failed to publish seller risk event",
			zap.String("seller_id", a.SellerID),
			zap.Error(err),
		)
	}
}
