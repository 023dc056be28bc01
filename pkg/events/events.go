package events

import (
	"context"
	"fmt"
	"time"

	"gymstore/pkg/kafka"
	"gymstore/pkg/logger"
)

const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"

	// OrderCheckoutStarted is an unpaid gateway order. OrderPlaced follows
	// once the payment is confirmed; COD orders are placed directly.
	OrderCheckoutStarted  = "order.checkout_started"
	OrderPlaced           = "order.placed"
	OrderPaymentConfirmed = "order.payment_confirmed"
	OrderPaymentFailed    = "order.payment_failed"
	OrderStatusUpdated    = "order.status_updated"
	OrderCancelled        = "order.cancelled"

	PaymentNotification = "payment.notification"
)

const schemaVersion = "1"

// Event is one domain fact. Key routes all events of one entity to the same
// partition so consumers see them in order.
type Event struct {
	Type          string
	Key           string
	CorrelationID string
	Payload       any
}

// Publisher emits domain events. Publishing is best-effort: failures are
// logged and never reach the caller's business operation.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Sender emits one event and reports whether the broker accepted it, for
// callers that must not lose the event.
type Sender interface {
	Send(ctx context.Context, event Event) error
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Topic() string
}

type KafkaPublisher struct {
	producer producer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaPublisher(p *kafka.Producer, source string, timeout time.Duration, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: p,
		source:   source,
		timeout:  timeout,
		log:      log,
	}
}

// Publish detaches from the request context so a client disconnect does not
// drop the event, but still bounds the write by the publisher timeout.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if err := p.Send(ctx, event); err != nil {
		p.log.ForContext(ctx).Error("Failed to publish event",
			"event_type", event.Type,
			"key", event.Key,
			"topic", p.producer.Topic(),
			"error", err,
		)
	}
}

// Send is Publish with the error returned instead of logged.
func (p *KafkaPublisher) Send(ctx context.Context, event Event) error {
	if event.CorrelationID == "" {
		event.CorrelationID = logger.RequestID(ctx)
	}

	msg, err := kafka.NewMessage().
		WithKey(event.Key).
		WithValue(event.Payload).
		WithEventType(event.Type).
		WithCorrelationID(event.CorrelationID).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(pubCtx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event to %s: %w", event.Type, p.producer.Topic(), err)
	}
	return nil
}

// NoopPublisher drops every event. Used when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
