package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymstore/pkg/kafka"
	"gymstore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	msgs     []kafka.Message
	ctxErr   error
	deadline bool
	err      error
}

func (f *fakeProducer) Publish(ctx context.Context, msg kafka.Message) error {
	f.ctxErr = ctx.Err()
	_, f.deadline = ctx.Deadline()
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakeProducer) Topic() string { return "orders.events" }

func TestKafkaPublisher_Publish(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaPublisher{producer: fp, source: "orders", timeout: time.Second, log: logger.Discard()}

	ctx := logger.WithRequestID(context.Background(), "req-1")
	p.Publish(ctx, Event{
		Type:    OrderPlaced,
		Key:     "order-1",
		Payload: OrderPayload{OrderID: "order-1", Status: "OrderPlaced"},
	})

	require.Len(t, fp.msgs, 1)
	msg := fp.msgs[0]
	assert.Equal(t, "order-1", msg.Key)
	assert.Equal(t, OrderPlaced, msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.Equal(t, "orders", msg.Headers[kafka.HeaderSource])
	assert.Contains(t, string(msg.Value), `"order_id":"order-1"`)
	assert.True(t, fp.deadline)
}

func TestKafkaPublisher_SurvivesCancelledRequest(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaPublisher{producer: fp, source: "bookings", timeout: time.Second, log: logger.Discard()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Publish(ctx, Event{Type: BookingCreated, Key: "b1", Payload: BookingPayload{BookingID: "b1"}})

	require.Len(t, fp.msgs, 1)
	assert.NoError(t, fp.ctxErr)
}

func TestKafkaPublisher_ErrorsAreSwallowed(t *testing.T) {
	fp := &fakeProducer{err: errors.New("broker down")}
	p := &KafkaPublisher{producer: fp, source: "orders", timeout: time.Second, log: logger.Discard()}

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), Event{Type: OrderCancelled, Key: "o1", Payload: OrderPayload{}})
	})
	assert.Len(t, fp.msgs, 1)
}

func TestKafkaPublisher_UnencodablePayload(t *testing.T) {
	fp := &fakeProducer{}
	p := &KafkaPublisher{producer: fp, source: "orders", timeout: time.Second, log: logger.Discard()}

	p.Publish(context.Background(), Event{Type: OrderPlaced, Key: "o1", Payload: make(chan int)})
	assert.Empty(t, fp.msgs)
}

func TestKafkaPublisher_SendReportsFailures(t *testing.T) {
	brokerDown := errors.New("broker down")
	fp := &fakeProducer{err: brokerDown}
	p := &KafkaPublisher{producer: fp, source: "orders", timeout: time.Second, log: logger.Discard()}

	err := p.Send(context.Background(), Event{Type: PaymentNotification, Key: "123", Payload: PaymentNotificationPayload{Reference: "123"}})
	assert.ErrorIs(t, err, brokerDown)
	assert.Len(t, fp.msgs, 1)

	fp.err = nil
	assert.NoError(t, p.Send(context.Background(), Event{Type: PaymentNotification, Key: "123", Payload: PaymentNotificationPayload{Reference: "123"}}))

	assert.Error(t, p.Send(context.Background(), Event{Type: PaymentNotification, Key: "1", Payload: make(chan int)}))
	assert.Len(t, fp.msgs, 2)
}
