package sellerrisk

import (
	"context"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/pkg/storage"
)

// RepositoryInterface defines the persistence operations for seller risk
type RepositoryInterface interface {
	SaveAssessment(ctx context.Context, assessment *models.SellerRiskAssessment) error
	GetRiskHistory(ctx context.Context, sellerID string, limit, offset int) ([]*models.SellerRiskAssessment, int64, error)
	CreateViolation(ctx context.Context, violation *models.DeliveryViolation) error
	GetViolationsBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*models.DeliveryViolation, int64, error)
	GetAllViolationsBySeller(ctx context.Context, sellerID string) ([]*models.DeliveryViolation, error)
}

// ReviewScorer scores a seller's reviews
type ReviewScorer interface {
	ScoreBatch(ctx context.Context, inputs []models.ReviewInput) []models.ReviewResult
}

// ReportArchive keeps assessment reports in object storage
type ReportArchive interface {
	Archive(ctx context.Context, assessment *models.SellerRiskAssessment) (*storage.UploadResult, error)
	ReportURL(ctx context.Context, sellerID string, assessmentID uuid.UUID) (*storage.PresignedURL, error)
}
