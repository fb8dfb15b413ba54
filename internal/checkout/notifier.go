package checkout

import (
	"context"
	"fmt"

	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// OrderPlacedEvent is the event type published for every accepted order.
const OrderPlacedEvent = "order.placed"

// Sink is one destination for order notifications.
type Sink interface {
	Name() string
	Enabled() bool
	Notify(ctx context.Context, order Order) error
}

type messageSender interface {
	SendMarkdown(ctx context.Context, chatID, text string) error
}

// TelegramSink posts the Markdown summary to the order chat. It is disabled
// when the bot token or chat id is missing.
type TelegramSink struct {
	client messageSender
	chatID string
}

func NewTelegramSink(client messageSender, chatID string) *TelegramSink {
	return &TelegramSink{client: client, chatID: chatID}
}

func (s *TelegramSink) Name() string { return "telegram" }

func (s *TelegramSink) Enabled() bool {
	return s.client != nil && s.chatID != ""
}

func (s *TelegramSink) Notify(ctx context.Context, order Order) error {
	return s.client.SendMarkdown(ctx, s.chatID, FormatMessage(order))
}

type eventPublisher interface {
	PublishJSON(ctx context.Context, eventType, aggregateID string, payload any) (string, error)
}

// PubSubSink mirrors accepted orders to a Pub/Sub topic.
type PubSubSink struct {
	publisher eventPublisher
}

func NewPubSubSink(publisher eventPublisher) *PubSubSink {
	return &PubSubSink{publisher: publisher}
}

func (s *PubSubSink) Name() string { return "pubsub" }

func (s *PubSubSink) Enabled() bool { return s.publisher != nil }

func (s *PubSubSink) Notify(ctx context.Context, order Order) error {
	_, err := s.publisher.PublishJSON(ctx, OrderPlacedEvent, order.Ref, order)
	return err
}

// Notifier fans an order out to every sink. Delivery is best-effort: each
// sink is attempted and failures are combined.
type Notifier struct {
	sinks   []Sink
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

func NewNotifier(logg *logger.Logger, m *metrics.CheckoutMetrics, sinks ...Sink) *Notifier {
	active := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			active = append(active, sink)
		}
	}
	return &Notifier{sinks: active, metrics: m, logg: logg}
}

// Notify delivers order to every enabled sink. It returns how many sinks
// accepted the order and the combined failures of the rest.
func (n *Notifier) Notify(ctx context.Context, order Order) (int, error) {
	var errs error
	delivered := 0
	for _, sink := range n.sinks {
		if !sink.Enabled() {
			if n.logg != nil {
				n.logg.Warn(n.logg.WithFields(ctx, map[string]any{"order_ref": order.Ref, "sink": sink.Name()}), "checkout.sink_not_configured")
			}
			continue
		}
		if err := sink.Notify(ctx, order); err != nil {
			n.metrics.IncNotifyFailure(sink.Name())
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		delivered++
	}
	if errs != nil && n.logg != nil {
		fields := map[string]any{
			"order_ref": order.Ref,
			"failures":  len(multierr.Errors(errs)),
			"error":     errs.Error(),
		}
		n.logg.Warn(n.logg.WithFields(ctx, fields), "checkout.notify_failed")
	}
	return delivered, errs
}
