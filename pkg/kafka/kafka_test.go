package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gymstore/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("order-1").
		WithValue(map[string]string{"status": "OrderPlaced"}).
		WithEventType("order.placed").
		WithSource("orders").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "order-1", msg.Key)
	assert.JSONEq(t, `{"status":"OrderPlaced"}`, string(msg.Value))
	assert.Equal(t, "order.placed", msg.GetEventType())
	assert.NotEmpty(t, msg.GetEventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestRetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	assert.Equal(t, 0, msg.GetRetryCount())
	for range 12 {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypeTransient, ClassifyError(errors.New("dial tcp: connection refused")))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(NewTransientError("gateway", errors.New("503"))))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(errors.New("order not found")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(NewPermanentError("bad payload", nil)))
	assert.Equal(t, ErrorTypeUnknown, ClassifyError(nil))

	assert.True(t, ShouldRetry(errors.New("i/o timeout"), 0, 3))
	assert.False(t, ShouldRetry(errors.New("i/o timeout"), 3, 3))
	assert.False(t, ShouldRetry(errors.New("validation failed"), 0, 3))
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "orders.events"}

	var seenTopic string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seenTopic = msg.Topic
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("o1").WithValue("x").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "o1", string(w.messages[0].Key))
	assert.Equal(t, "orders.events", seenTopic)
}

func TestProducer_Validation(t *testing.T) {
	p := &Producer{writer: &fakeWriter{}, topic: "t"}
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k", Value: []byte("x")}), ErrProducerClosed)
}

func TestProducer_FailedPublishGoesToDLQ(t *testing.T) {
	writeErr := errors.New("broker down")
	dlq := &fakeWriter{}
	p := &Producer{writer: &fakeWriter{err: writeErr}, dlqWriter: dlq, topic: "orders.events"}

	msg, _ := NewMessage().WithKey("o1").WithValue("x").Build()
	err := p.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "orders.events", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "broker down", header(dlq.messages[0], "dlq-error"))
	_, leaked := msg.Headers[HeaderOriginalTopic]
	assert.False(t, leaked, "caller's headers must not be mutated")
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	c := &Consumer{
		topic:      "payments.notifications",
		maxRetries: 3,
		log:        logger.Discard(),
		handler: func(ctx context.Context, msg Message) error {
			calls++
			if calls < 3 {
				return NewTransientError("gateway unavailable", nil)
			}
			return nil
		},
	}

	err := c.processMessage(context.Background(), Message{Headers: map[string]string{}})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	dlq := &fakeWriter{}
	calls := 0
	c := &Consumer{
		topic:      "payments.notifications",
		groupID:    "payments-worker",
		maxRetries: 3,
		dlqWriter:  dlq,
		log:        logger.Discard(),
		handler: func(ctx context.Context, msg Message) error {
			calls++
			return NewPermanentError("unknown order", nil)
		},
	}

	err := c.processMessage(context.Background(), Message{Key: "o1", Headers: map[string]string{}})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "payments-worker", header(dlq.messages[0], "dlq-consumer-group"))
}

func TestConsumer_RetriesExhausted(t *testing.T) {
	dlq := &fakeWriter{}
	calls := 0
	c := &Consumer{
		topic:      "payments.notifications",
		maxRetries: 2,
		dlqWriter:  dlq,
		log:        logger.Discard(),
		handler: func(ctx context.Context, msg Message) error {
			calls++
			return errors.New("i/o timeout")
		},
	}

	err := c.processMessage(context.Background(), Message{Key: "o1", Headers: map[string]string{}})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, dlq.messages, 1)
}
