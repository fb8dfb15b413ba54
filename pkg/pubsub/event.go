package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const defaultPublishTimeout = 10 * time.Second

// Envelope wraps every published event payload.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) publishResult
}

// EventPublisher publishes JSON envelopes to one topic and waits for the ack.
type EventPublisher struct {
	pub     publisher
	timeout time.Duration
	now     func() time.Time
}

// NewEventPublisher wraps a topic publisher. A nil publisher yields nil.
func NewEventPublisher(p *pubsub.Publisher) *EventPublisher {
	if p == nil {
		return nil
	}
	return newEventPublisher(&gcpPublisher{Publisher: p})
}

func newEventPublisher(p publisher) *EventPublisher {
	return &EventPublisher{
		pub:     p,
		timeout: defaultPublishTimeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PublishJSON encodes payload inside an Envelope and publishes it. The
// server-assigned message id is returned.
func (e *EventPublisher) PublishJSON(ctx context.Context, eventType, aggregateID string, payload any) (string, error) {
	if e == nil || e.pub == nil {
		return "", errors.New("event publisher not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: e.now(),
		Data:       data,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("encode %s envelope: %w", eventType, err)
	}

	msg := &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"event_id":     envelope.EventID,
			"event_type":   eventType,
			"aggregate_id": aggregateID,
			"created_at":   envelope.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	result := e.pub.Publish(publishCtx, msg)
	if result == nil {
		return "", fmt.Errorf("publisher returned nil for %s", eventType)
	}
	id, err := result.Get(publishCtx)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", eventType, err)
	}
	return id, nil
}

type gcpPublisher struct {
	*pubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*pubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}
