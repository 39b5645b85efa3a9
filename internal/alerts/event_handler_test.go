package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/models"
	"github.com/richxcame/review-guard/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingBus captures handlers by subject.
type recordingBus struct {
	handlers map[string]eventbus.Handler
	durables []string
	err      error
}

func (b *recordingBus) Subscribe(ctx context.Context, subject, durable string, handler eventbus.Handler) error {
	if b.err != nil {
		return b.err
	}
	if b.handlers == nil {
		b.handlers = make(map[string]eventbus.Handler)
	}
	b.handlers[subject] = handler
	b.durables = append(b.durables, durable)
	return nil
}

func makeEvent(t *testing.T, eventType string, data interface{}) *eventbus.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &eventbus.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "review-scoring",
		Timestamp: time.Now(),
		Data:      raw,
	}
}

func TestRegisterSubscriptions(t *testing.T) {
	bus := &recordingBus{}
	handler := NewEventHandler(NewService(new(mocks.MockAlertRepository)))

	require.NoError(t, handler.RegisterSubscriptions(context.Background(), bus))

	assert.Contains(t, bus.handlers, eventbus.SubjectReviewFlagged)
	assert.Contains(t, bus.handlers, eventbus.SubjectSellerRiskAssessed)
	assert.Equal(t, []string{"alerts-reviews-flagged", "alerts-sellers-assessed"}, bus.durables)
}

func TestRegisterSubscriptions_Error(t *testing.T) {
	bus := &recordingBus{err: errors.New("stream not found")}
	handler := NewEventHandler(NewService(new(mocks.MockAlertRepository)))

	err := handler.RegisterSubscriptions(context.Background(), bus)

	require.Error(t, err)
	assert.Contains(t, err.Error(), eventbus.SubjectReviewFlagged)
}

func TestHandleReviewFlagged(t *testing.T) {
	repo := new(mocks.MockAlertRepository)
	repo.On("HasOpenAlert", mock.Anything, models.AlertTypeFakeReview, "seller-1", "review-1").Return(false, nil)
	repo.On("CreateAlert", mock.Anything, mock.Anything).Return(nil)
	handler := NewEventHandler(newTestService(repo))

	evt, err := eventbus.NewReviewFlaggedEvent("review-scoring", flaggedReview(0.91))
	require.NoError(t, err)

	require.NoError(t, handler.handleReviewFlagged(context.Background(), evt))
	repo.AssertCalled(t, "CreateAlert", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.SourceEvent == evt.ID && a.AlertLevel == models.AlertLevelCritical
	}))
}

func TestHandleReviewFlagged_BadPayload(t *testing.T) {
	handler := NewEventHandler(newTestService(new(mocks.MockAlertRepository)))
	evt := &eventbus.Event{ID: "evt-1", Type: "review.flagged", Data: json.RawMessage(`"not an object"`)}

	assert.Error(t, handler.handleReviewFlagged(context.Background(), evt))
}

func TestHandleReviewFlagged_IgnoresOtherTypes(t *testing.T) {
	repo := new(mocks.MockAlertRepository)
	handler := NewEventHandler(newTestService(repo))

	assert.NoError(t, handler.handleReviewFlagged(context.Background(), makeEvent(t, "review.approved", map[string]string{})))
	repo.AssertNotCalled(t, "HasOpenAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleReviewFlagged_RepositoryErrorIsReturned(t *testing.T) {
	repo := new(mocks.MockAlertRepository)
	repo.On("HasOpenAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("db down"))
	handler := NewEventHandler(newTestService(repo))

	evt, err := eventbus.NewReviewFlaggedEvent("review-scoring", flaggedReview(0.7))
	require.NoError(t, err)

	assert.Error(t, handler.handleReviewFlagged(context.Background(), evt))
}

func TestHandleSellerAssessed(t *testing.T) {
	repo := new(mocks.MockAlertRepository)
	repo.On("HasOpenAlert", mock.Anything, models.AlertTypeHighRiskSeller, "seller-1", "").Return(false, nil)
	repo.On("CreateAlert", mock.Anything, mock.Anything).Return(nil)
	handler := NewEventHandler(newTestService(repo))

	evt, err := eventbus.NewSellerRiskAssessedEvent("seller-risk", eventbus.SellerRiskAssessedData{
		SellerID: "seller-1", RiskScore: 75, RiskLevel: "high",
	})
	require.NoError(t, err)

	require.NoError(t, handler.handleSellerAssessed(context.Background(), evt))
	repo.AssertNumberOfCalls(t, "CreateAlert", 1)
}

func TestHandleSellerAssessed_MediumSellerNoAlert(t *testing.T) {
	repo := new(mocks.MockAlertRepository)
	handler := NewEventHandler(newTestService(repo))

	evt, err := eventbus.NewSellerRiskAssessedEvent("seller-risk", eventbus.SellerRiskAssessedData{
		SellerID: "seller-1", RiskScore: 48, RiskLevel: "medium",
	})
	require.NoError(t, err)

	require.NoError(t, handler.handleSellerAssessed(context.Background(), evt))
	repo.AssertNotCalled(t, "CreateAlert", mock.Anything, mock.Anything)
}
