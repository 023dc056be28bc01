package worker

import (
	"context"
	"errors"
	"time"

	orderserrors "gymstore/internal/orders/errors"
	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/events"
	"gymstore/pkg/kafka"
	"gymstore/pkg/logger"
	"gymstore/pkg/payments"
)

// Reconciler is the part of the order service the payments worker drives.
type Reconciler interface {
	ReconcileNotification(ctx context.Context, gateway, reference string) error
	PurgeStalePending(ctx context.Context) (int64, error)
}

// NotificationHandler consumes payments.notifications. The webhook body is
// never trusted: the handler only takes the gateway reference from it and
// lets the order service re-fetch the payment from the gateway.
func NotificationHandler(r Reconciler, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if t := msg.GetEventType(); t != "" && t != events.PaymentNotification {
			log.Warn("Skipping unexpected event on notifications topic", "event_type", t, "offset", msg.Offset)
			return nil
		}

		var payload events.PaymentNotificationPayload
		if err := msg.DecodeValue(&payload); err != nil {
			return kafka.NewPermanentError("failed to decode payment notification", err)
		}
		if payload.Gateway == "" || payload.Reference == "" {
			return kafka.NewPermanentError("payment notification without gateway or reference", kafka.ErrInvalidMessage)
		}

		err := r.ReconcileNotification(ctx, payload.Gateway, payload.Reference)
		if err != nil {
			return classify(err)
		}

		log.Info("Payment notification reconciled",
			"gateway", payload.Gateway,
			"reference", payload.Reference,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}

// classify marks failures that a later attempt can fix as transient: the
// gateway being unreachable or the store failing. Bad references and
// unconfigured gateways go to the DLQ, as do paid payments whose order is
// gone, so they stay visible for manual reconciliation.
func classify(err error) error {
	switch {
	case errors.Is(err, payments.ErrUnknownGateway), errors.Is(err, payments.ErrInvalidRef):
		return kafka.NewPermanentError("payment notification cannot be reconciled", err)
	case errors.Is(err, orderserrors.ErrOrphanedPayment):
		return kafka.NewPermanentError("paid payment without order", err)
	case apperrors.HasCode(err, apperrors.CodeInvalidInput),
		apperrors.HasCode(err, apperrors.CodeValidation),
		apperrors.HasCode(err, apperrors.CodeForbidden):
		return kafka.NewPermanentError("payment notification rejected", err)
	default:
		return kafka.NewTransientError("payment reconciliation failed", err)
	}
}

// Reaper periodically settles PaymentPending orders that outlived the
// pending TTL.
type Reaper struct {
	reconciler Reconciler
	interval   time.Duration
	log        *logger.Logger
}

func NewReaper(r Reconciler, interval time.Duration, log *logger.Logger) *Reaper {
	return &Reaper{
		reconciler: r,
		interval:   interval,
		log:        log,
	}
}

// Run purges once immediately and then every interval until ctx is done.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.reconciler.PurgeStalePending(ctx); err != nil && ctx.Err() == nil {
			r.log.Error("Pending order purge failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
