package alerts

import (
	"context"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/models"
)

// AlertRepository defines the persistence operations for alerts
type AlertRepository interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	GetAlertByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListAlerts(ctx context.Context, status models.AlertStatus, limit, offset int) ([]*models.Alert, int64, error)
	UpdateAlertStatus(ctx context.Context, id uuid.UUID, status models.AlertStatus, notes string) error
	HasOpenAlert(ctx context.Context, alertType models.AlertType, sellerID, reviewID string) (bool, error)
}

// Subscriber is the part of the event bus the alert consumer needs
type Subscriber interface {
	Subscribe(ctx context.Context, subject, durable string, handler eventbus.Handler) error
}
