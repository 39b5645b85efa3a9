package mocks

import (
	"context"

	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockPredictor is a mock implementation of scoring.Predictor
type MockPredictor struct {
	mock.Mock
}

// Score mocks a model probability for one pattern kind
func (m *MockPredictor) Score(ctx context.Context, kind models.PatternKind, vector models.FeatureVector) (float64, error) {
	args := m.Called(ctx, kind, vector)
	return args.Get(0).(float64), args.Error(1)
}

// MockFeatureEncoder is a mock implementation of scoring.FeatureEncoder
type MockFeatureEncoder struct {
	mock.Mock
}

// Encode mocks feature encoding
func (m *MockFeatureEncoder) Encode(review models.ReviewInput, features models.TextFeatures) (models.FeatureVector, error) {
	args := m.Called(review, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.FeatureVector), args.Error(1)
}

// MockEventPublisher is a mock implementation of an event publisher
type MockEventPublisher struct {
	mock.Mock
}

// Publish mocks publishing an event
func (m *MockEventPublisher) Publish(ctx context.Context, subject string, event *eventbus.Event) error {
	args := m.Called(ctx, subject, event)
	return args.Error(0)
}
