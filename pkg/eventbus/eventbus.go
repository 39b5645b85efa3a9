package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/richxcame/review-guard/pkg/logger"
	"go.uber.org/zap"
)

const (
	// StreamName is the JetStream stream holding every review-guard event.
	StreamName = "REVIEWGUARD"

	SubjectReviewFlagged      = "reviews.flagged"
	SubjectSellerRiskAssessed = "sellers.risk_assessed"

	eventTypeReviewFlagged      = "review.flagged"
	eventTypeSellerRiskAssessed = "seller.risk_assessed"
)

// Event is the envelope published on the bus.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent marshals data into a fresh envelope.
func NewEvent(eventType, source string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Handler processes a delivered event. Returning an error naks the message.
type Handler func(ctx context.Context, event *Event) error

// Config holds connection settings.
type Config struct {
	URL  string
	Name string
}

// Bus publishes and consumes events over NATS JetStream.
type Bus struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// New connects to NATS and ensures the stream exists.
func New(cfg Config) (*Bus, error) {
	if cfg.URL == "" {
		return nil, errors.New("eventbus: NATS URL is required")
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("eventbus: disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("eventbus: reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	if _, err := js.StreamInfo(StreamName); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			conn.Close()
			return nil, fmt.Errorf("stream info: %w", err)
		}
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{"reviews.>", "sellers.>"},
			MaxAge:   7 * 24 * time.Hour,
			Storage:  nats.FileStorage,
		}); err != nil {
			conn.Close()
			return nil, fmt.Errorf("create stream: %w", err)
		}
	}

	return &Bus{conn: conn, js: js}, nil
}

// Publish sends the event on subject, using the event ID for de-duplication.
func (b *Bus) Publish(ctx context.Context, subject string, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := b.js.Publish(subject, payload, nats.Context(ctx), nats.MsgId(event.ID)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe attaches a durable consumer to subject until ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, subject, durable string, handler Handler) error {
	sub, err := b.js.Subscribe(subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Warn("eventbus: dropping malformed event", zap.String("subject", msg.Subject), zap.Error(err))
			_ = msg.Term()
			return
		}

		evtCtx := logger.ContextWithCorrelationID(ctx, event.ID)
		if err := handler(evtCtx, &event); err != nil {
			logger.WithContext(evtCtx).Error("eventbus: handler failed",
				zap.String("subject", msg.Subject),
				zap.String("type", event.Type),
				zap.Error(err),
			)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	}, nats.Durable(durable), nats.ManualAck(), nats.AckWait(30*time.Second), nats.MaxDeliver(5))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

// Ping reports whether the connection is usable.
func (b *Bus) Ping(ctx context.Context) error {
	if !b.conn.IsConnected() {
		return errors.New("nats not connected")
	}
	return b.conn.FlushWithContext(ctx)
}

// Close drains in-flight messages and closes the connection.
func (b *Bus) Close() {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}
