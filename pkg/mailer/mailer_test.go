package mailer

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"gymstore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	err      error
	deadline bool
	to       string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	_, f.deadline = ctx.Deadline()
	f.to = to
	return f.err
}

func TestNotifier_Success(t *testing.T) {
	fm := &fakeMailer{}
	n := NewNotifier(fm, time.Second, logger.Discard())

	res := n.Notify(context.Background(), "a@example.com", "Hi", "<p>hi</p>")
	assert.True(t, res.Sent)
	assert.Empty(t, res.Error)
	assert.True(t, fm.deadline)
	assert.Equal(t, "a@example.com", fm.to)
}

func TestNotifier_FailureIsAdvisory(t *testing.T) {
	n := NewNotifier(&fakeMailer{err: errors.New("connection refused")}, time.Second, logger.Discard())

	res := n.Notify(context.Background(), "a@example.com", "Hi", "<p>hi</p>")
	assert.False(t, res.Sent)
	assert.Equal(t, "connection refused", res.Error)
}

func TestDisabledMailer(t *testing.T) {
	err := disabledMailer{}.Send(context.Background(), "a@example.com", "s", "b")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSMTPMailer_RespectsContextDeadline(t *testing.T) {
	// A listener that accepts but never speaks SMTP.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	m := &SMTPMailer{host: "127.0.0.1", port: addr.Port, from: "store@example.com", now: time.Now}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = m.Send(ctx, "a@example.com", "s", "b")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestBuildMessage(t *testing.T) {
	m := &SMTPMailer{from: "store@example.com", now: func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }}
	msg := string(m.buildMessage("a@example.com\r\nBcc: x@evil.com", "Order cancelled", "<p>body</p>"))

	assert.Contains(t, msg, "From: store@example.com\r\n")
	assert.Contains(t, msg, "To: a@example.comBcc: x@evil.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>body</p>"))
}

func TestBookingCancelledTemplate(t *testing.T) {
	subject, body, err := BookingCancelled(BookingCancelledData{
		Name:     "<script>alert(1)</script>",
		Gym:      "A",
		Facility: "pool",
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot: "18:00-19:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Booking cancelled", subject)
	assert.Contains(t, body, "2024-06-01")
	assert.Contains(t, body, "18:00-19:00")
	assert.NotContains(t, body, "<script>")
}

func TestOrderCancelledTemplate(t *testing.T) {
	subject, body, err := OrderCancelled(OrderCancelledData{
		Name:     "Ana",
		OrderID:  "o1",
		Items:    []OrderLine{{Name: "Shirt", Size: "M", Quantity: 2}},
		Amount:   510,
		Currency: "inr",
	})
	require.NoError(t, err)
	assert.Equal(t, "Order o1 cancelled", subject)
	assert.Contains(t, body, "Shirt (M)")
	assert.Contains(t, body, "510.00 inr")
}

func TestLoginCodeTemplate(t *testing.T) {
	subject, body, err := LoginCode(LoginCodeData{Name: "Ana", Code: "042917", ValidFor: 10 * time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "Your login code", subject)
	assert.Contains(t, body, "042917")
	assert.Contains(t, body, "expires in 10 minutes")
}
