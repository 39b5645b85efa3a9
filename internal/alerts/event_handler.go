package alerts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/richxcame/review-guard/pkg/eventbus"
	"github.com/richxcame/review-guard/pkg/logger"
	"go.uber.org/zap"
)

// EventHandler raises alerts from scoring events on the bus.
type EventHandler struct {
	service *Service
}

// NewEventHandler creates an event handler backed by the alert service.
func NewEventHandler(service *Service) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterSubscriptions subscribes to flagged review and seller assessment events.
func (h *EventHandler) RegisterSubscriptions(ctx context.Context, bus Subscriber) error {
	if err := bus.Subscribe(ctx, eventbus.SubjectReviewFlagged, "alerts-reviews-flagged", h.handleReviewFlagged); err != nil {
		return fmt.Errorf("subscribe to %s: %w", eventbus.SubjectReviewFlagged, err)
	}
	if err := bus.Subscribe(ctx, eventbus.SubjectSellerRiskAssessed, "alerts-sellers-assessed", h.handleSellerAssessed); err != nil {
		return fmt.Errorf("subscribe to %s: %w", eventbus.SubjectSellerRiskAssessed, err)
	}
	logger.Info("alerts: subscribed to review and seller risk events")
	return nil
}

func (h *EventHandler) handleReviewFlagged(ctx context.Context, event *eventbus.Event) error {
	if !eventbus.IsReviewFlagged(event) {
		logger.Debug("alerts: ignoring unexpected event type", zap.String("type", event.Type))
		return nil
	}

	var data eventbus.ReviewFlaggedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal review flagged: %w", err)
	}

	if _, err := h.service.RaiseFakeReviewAlert(ctx, data, event.ID); err != nil {
		logger.Error("alerts: failed to raise fake review alert",
			zap.String("review_id", data.ReviewID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (h *EventHandler) handleSellerAssessed(ctx context.Context, event *eventbus.Event) error {
	if !eventbus.IsSellerRiskAssessed(event) {
		logger.Debug("alerts: ignoring unexpected event type", zap.String("type", event.Type))
		return nil
	}

	var data eventbus.SellerRiskAssessedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal seller risk assessed: %w", err)
	}

	if _, err := h.service.RaiseHighRiskSellerAlert(ctx, data, event.ID); err != nil {
		logger.Error("alerts: failed to raise seller alert",
			zap.String("seller_id", data.SellerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
