package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockSellerRiskRepository is a mock implementation of the seller risk repository
type MockSellerRiskRepository struct {
	mock.Mock
}

// SaveAssessment mocks persisting an assessment
func (m *MockSellerRiskRepository) SaveAssessment(ctx context.Context, assessment *models.SellerRiskAssessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

// GetRiskHistory mocks listing past assessments
func (m *MockSellerRiskRepository) GetRiskHistory(ctx context.Context, sellerID string, limit, offset int) ([]*models.SellerRiskAssessment, int64, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	history, _ := args.Get(0).([]*models.SellerRiskAssessment)
	return history, int64(args.Int(1)), args.Error(2)
}

// CreateViolation mocks recording a delivery violation
func (m *MockSellerRiskRepository) CreateViolation(ctx context.Context, violation *models.DeliveryViolation) error {
	args := m.Called(ctx, violation)
	return args.Error(0)
}

// GetViolationsBySeller mocks paginated violation listing
func (m *MockSellerRiskRepository) GetViolationsBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*models.DeliveryViolation, int64, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	violations, _ := args.Get(0).([]*models.DeliveryViolation)
	return violations, int64(args.Int(1)), args.Error(2)
}

// GetAllViolationsBySeller mocks loading every violation for risk computation
func (m *MockSellerRiskRepository) GetAllViolationsBySeller(ctx context.Context, sellerID string) ([]*models.DeliveryViolation, error) {
	args := m.Called(ctx, sellerID)
	violations, _ := args.Get(0).([]*models.DeliveryViolation)
	return violations, args.Error(1)
}

// MockAlertRepository is a mock implementation of the alert repository
type MockAlertRepository struct {
	mock.Mock
}

// CreateAlert mocks creating an alert
func (m *MockAlertRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

// GetAlertByID mocks fetching an alert
func (m *MockAlertRepository) GetAlertByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

// ListAlerts mocks listing alerts by status
func (m *MockAlertRepository) ListAlerts(ctx context.Context, status models.AlertStatus, limit, offset int) ([]*models.Alert, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	alerts, _ := args.Get(0).([]*models.Alert)
	return alerts, int64(args.Int(1)), args.Error(2)
}

// UpdateAlertStatus mocks a status transition
func (m *MockAlertRepository) UpdateAlertStatus(ctx context.Context, id uuid.UUID, status models.AlertStatus, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

// HasOpenAlert mocks the duplicate check
func (m *MockAlertRepository) HasOpenAlert(ctx context.Context, alertType models.AlertType, sellerID, reviewID string) (bool, error) {
	args := m.Called(ctx, alertType, sellerID, reviewID)
	return args.Bool(0), args.Error(1)
}
