package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	orderserrors "gymstore/internal/orders/errors"
	"gymstore/internal/orders/repository"
	"gymstore/internal/orders/validator"
	"gymstore/pkg/config"
	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/events"
	"gymstore/pkg/mailer"
	"gymstore/pkg/metrics"
	"gymstore/pkg/model"
	"gymstore/pkg/payments"
	"gymstore/pkg/sanitizer"
	"gymstore/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DeliveryChargesItem = "Delivery Charges"

	staleBatchSize = 100
)

type OrderService interface {
	Create(ctx context.Context, userID, origin string, req *model.OrderRequest) (*CreateResult, error)
	VerifyPayment(ctx context.Context, userID string, req *model.VerifyPaymentRequest) (*VerifyResult, error)
	ConfirmGatewayPayment(ctx context.Context, orderID string, outcome payments.Outcome) (*model.Order, error)
	ReconcileNotification(ctx context.Context, gateway, reference string) error
	UpdateStatus(ctx context.Context, id string, update *model.OrderStatusUpdate) (*model.Order, error)
	Cancel(ctx context.Context, id, ownerScope string) (*CancelResult, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error)
	PurgeStalePending(ctx context.Context) (int64, error)
}

// CreateResult carries the hosted checkout for gateway orders. COD orders
// have no session.
type CreateResult struct {
	Order   *model.Order      `json:"order"`
	Session *payments.Session `json:"session,omitempty"`
}

type VerifyResult struct {
	Success bool             `json:"success"`
	Outcome payments.Outcome `json:"outcome"`
	Order   *model.Order     `json:"order,omitempty"`
}

type CancelResult struct {
	Order             *model.Order `json:"order"`
	NotificationSent  bool         `json:"notification_sent"`
	NotificationError string       `json:"notification_error,omitempty"`
}

type orderService struct {
	repo      repository.OrderRepository
	carts     repository.CartRepository
	validator *validator.OrderValidator
	gateways  *payments.Registry
	publisher events.Publisher
	notifier  *mailer.Notifier
	cfg       *config.Config
	now       func() time.Time
}

func NewOrderService(
	repo repository.OrderRepository,
	carts repository.CartRepository,
	validator *validator.OrderValidator,
	gateways *payments.Registry,
	publisher events.Publisher,
	notifier *mailer.Notifier,
	cfg *config.Config,
) OrderService {
	return &orderService{
		repo:      repo,
		carts:     carts,
		validator: validator,
		gateways:  gateways,
		publisher: publisher,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *orderService) Create(ctx context.Context, userID, origin string, req *model.OrderRequest) (*CreateResult, error) {
	log := s.cfg.Log.ForContext(ctx)
	sanitizeOrder(req)

	if err := s.validator.ValidateRequest(req); err != nil {
		log.Warn("Order validation failed", "user_id", userID, "error", err)
		return nil, validation.AsAppError("Missing required fields", err)
	}

	order := &model.Order{
		UserID:        userID,
		Items:         req.Items,
		Address:       req.Address,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Payment:       false,
	}

	if order.PaymentMethod == model.PaymentMethodCOD {
		return s.createCashOnDelivery(ctx, order)
	}

	gw, err := s.gateways.Get(order.PaymentMethod)
	if err != nil {
		log.Error("Payment gateway not configured", "payment_method", order.PaymentMethod, "error", err)
		return nil, apperrors.Unavailable(order.PaymentMethod + " payments")
	}

	order.Status = model.OrderStatusPaymentPending
	if err := s.repo.Create(ctx, order); err != nil {
		log.Error("Failed to create order", "user_id", userID, "payment_method", order.PaymentMethod, "error", err)
		return nil, apperrors.Internal("Failed to create order", err)
	}
	metrics.IncOrderCreated(order.PaymentMethod)
	s.publish(ctx, events.OrderCheckoutStarted, order)

	session, err := s.openCheckout(ctx, gw, origin, order)
	if err != nil {
		log.Error("Failed to create checkout session",
			"order_id", order.ID,
			"gateway", gw.Name(),
			"error", err,
		)
		return nil, apperrors.BadGateway("Payment gateway", err).WithDetail("order_id", order.ID)
	}

	if err := s.repo.SetGatewayRef(ctx, order.ID, session.ID); err != nil {
		log.Warn("Failed to store gateway reference", "order_id", order.ID, "reference", session.ID, "error", err)
	} else {
		order.GatewayRef = session.ID
	}

	log.Info("Order created, awaiting payment", "order_id", order.ID, "gateway", gw.Name(), "reference", session.ID)
	return &CreateResult{Order: order, Session: session}, nil
}

// createCashOnDelivery stores the order and empties the cart together.
func (s *orderService) createCashOnDelivery(ctx context.Context, order *model.Order) (*CreateResult, error) {
	order.Status = model.OrderStatusPlaced

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		order.ID = ""
		if err := s.repo.Create(sessCtx, order); err != nil {
			return err
		}
		return s.carts.ClearCart(sessCtx, order.UserID)
	})
	if err != nil {
		s.cfg.Log.ForContext(ctx).Error("Failed to place COD order", "user_id", order.UserID, "error", err)
		return nil, apperrors.Internal("Failed to create order", err)
	}

	metrics.IncOrderCreated(order.PaymentMethod)
	s.publish(ctx, events.OrderPlaced, order)
	s.cfg.Log.ForContext(ctx).Info("Order placed", "order_id", order.ID, "payment_method", order.PaymentMethod)
	return &CreateResult{Order: order}, nil
}

func (s *orderService) openCheckout(ctx context.Context, gw payments.Gateway, origin string, order *model.Order) (*payments.Session, error) {
	success, failure := payments.VerifyURLs(origin, order.ID)

	items := make([]payments.LineItem, 0, len(order.Items)+1)
	for _, it := range order.Items {
		items = append(items, payments.LineItem{Name: it.Name, UnitPrice: it.Price, Quantity: it.Quantity})
	}
	items = append(items, payments.LineItem{Name: DeliveryChargesItem, UnitPrice: s.cfg.DeliveryCharge, Quantity: 1})

	ctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	return gw.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		OrderID:    order.ID,
		Currency:   s.cfg.Currency,
		Email:      order.Address.Email,
		Items:      items,
		SuccessURL: success,
		FailureURL: failure,
	})
}

// VerifyPayment settles a PaymentPending order after the customer returns
// from checkout. A pending gateway status leaves the order untouched.
func (s *orderService) VerifyPayment(ctx context.Context, userID string, req *model.VerifyPaymentRequest) (*VerifyResult, error) {
	log := s.cfg.Log.ForContext(ctx)

	if err := s.validator.ValidateVerify(req); err != nil {
		return nil, validation.AsAppError("Missing required fields", err)
	}

	order, err := s.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && order.UserID != userID {
		return nil, apperrors.Forbidden("Not authorized to verify this order")
	}
	if order.Status != model.OrderStatusPaymentPending {
		return settledResult(order), nil
	}

	if req.Success == "false" {
		return s.failPayment(ctx, order)
	}

	gw, err := s.gateways.Get(order.PaymentMethod)
	if err != nil {
		log.Error("Payment gateway not configured", "order_id", order.ID, "payment_method", order.PaymentMethod)
		return nil, apperrors.Unavailable(order.PaymentMethod + " payments")
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = order.GatewayRef
	}
	if reference == "" {
		log.Warn("No gateway reference to verify", "order_id", order.ID)
		return &VerifyResult{Outcome: payments.OutcomePending, Order: order}, nil
	}

	status, err := s.fetchStatus(ctx, gw, reference)
	switch {
	case errors.Is(err, payments.ErrInvalidRef):
		log.Warn("Gateway reference cannot be looked up", "order_id", order.ID, "reference", reference)
		return &VerifyResult{Outcome: payments.OutcomePending, Order: order}, nil
	case err != nil:
		log.Error("Payment verification failed", "order_id", order.ID, "gateway", gw.Name(), "reference", reference, "error", err)
		metrics.IncPaymentOutcome(gw.Name(), "error")
		return s.failPayment(ctx, order)
	}

	if status.OrderID != "" && status.OrderID != order.ID {
		log.Warn("Gateway reference belongs to another order", "order_id", order.ID, "reference", reference, "gateway_order_id", status.OrderID)
		return nil, apperrors.InvalidInput("Payment reference does not match this order")
	}

	switch status.Outcome {
	case payments.OutcomePaid:
		confirmed, err := s.ConfirmGatewayPayment(ctx, order.ID, payments.OutcomePaid)
		if err != nil {
			return nil, err
		}
		return &VerifyResult{Success: true, Outcome: payments.OutcomePaid, Order: confirmed}, nil
	case payments.OutcomeFailed:
		return s.failPayment(ctx, order)
	default:
		return &VerifyResult{Outcome: payments.OutcomePending, Order: order}, nil
	}
}

func (s *orderService) failPayment(ctx context.Context, order *model.Order) (*VerifyResult, error) {
	if _, err := s.ConfirmGatewayPayment(ctx, order.ID, payments.OutcomeFailed); err != nil {
		return nil, err
	}
	return &VerifyResult{Outcome: payments.OutcomeFailed}, nil
}

func (s *orderService) fetchStatus(ctx context.Context, gw payments.Gateway, reference string) (*payments.PaymentStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()
	return gw.FetchOrderStatus(ctx, reference)
}

func settledResult(order *model.Order) *VerifyResult {
	switch {
	case order.Payment:
		return &VerifyResult{Success: true, Outcome: payments.OutcomePaid, Order: order}
	case order.Status == model.OrderStatusCancelled:
		return &VerifyResult{Outcome: payments.OutcomeFailed, Order: order}
	default:
		return &VerifyResult{Outcome: payments.OutcomePending, Order: order}
	}
}

// ConfirmGatewayPayment applies a gateway outcome. Paid marks the order paid
// and placed and empties the cart in one transaction. Failed deletes the
// order; a delete that fails is returned to the caller. The failed outcome
// returns a nil order.
func (s *orderService) ConfirmGatewayPayment(ctx context.Context, orderID string, outcome payments.Outcome) (*model.Order, error) {
	switch outcome {
	case payments.OutcomePaid:
		return s.markPaid(ctx, orderID)
	case payments.OutcomeFailed:
		return nil, s.discardUnpaid(ctx, orderID)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unsupported payment outcome: %s", outcome))
	}
}

func (s *orderService) markPaid(ctx context.Context, orderID string) (*model.Order, error) {
	log := s.cfg.Log.ForContext(ctx)
	paid := true

	var confirmed *model.Order
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		order, err := s.repo.Transition(sessCtx, orderID, repository.StatusChange{
			From:    []string{model.OrderStatusPaymentPending},
			To:      model.OrderStatusPlaced,
			Payment: &paid,
		})
		if err != nil {
			return err
		}
		confirmed = order
		return s.carts.ClearCart(sessCtx, order.UserID)
	})
	if err != nil {
		if errors.Is(err, orderserrors.ErrStatusChanged) {
			current, getErr := s.GetByID(ctx, orderID)
			if getErr != nil {
				return nil, getErr
			}
			if current.Payment && current.Status != model.OrderStatusCancelled {
				return current, nil
			}
			return nil, apperrors.Conflict(MsgNotAwaitingPayment)
		}
		return nil, s.translateError(ctx, orderID, "Failed to confirm payment", err)
	}

	metrics.IncPaymentOutcome(confirmed.PaymentMethod, string(payments.OutcomePaid))
	metrics.IncOrderTransition(confirmed.Status)
	s.publish(ctx, events.OrderPaymentConfirmed, confirmed)
	s.publish(ctx, events.OrderPlaced, confirmed)
	log.Info("Payment confirmed", "order_id", orderID, "gateway", confirmed.PaymentMethod)
	return confirmed, nil
}

func (s *orderService) discardUnpaid(ctx context.Context, orderID string) error {
	log := s.cfg.Log.ForContext(ctx)

	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePending(ctx, orderID); err != nil {
		if errors.Is(err, orderserrors.ErrStatusChanged) {
			return apperrors.Conflict(MsgNotAwaitingPayment)
		}
		log.Error("Failed to delete unpaid order", "order_id", orderID, "error", err)
		return s.translateError(ctx, orderID, "Failed to delete unpaid order", err)
	}

	metrics.IncPaymentOutcome(order.PaymentMethod, string(payments.OutcomeFailed))
	s.publish(ctx, events.OrderPaymentFailed, order)
	log.Info("Unpaid order removed", "order_id", orderID, "gateway", order.PaymentMethod)
	return nil
}

// ReconcileNotification re-fetches a payment the gateway told us about and
// applies its outcome. Orders that were already settled are skipped. A paid
// payment whose order is gone is reported as ErrOrphanedPayment.
func (s *orderService) ReconcileNotification(ctx context.Context, gateway, reference string) error {
	log := s.cfg.Log.ForContext(ctx)

	gw, err := s.gateways.Get(gateway)
	if err != nil {
		return err
	}

	status, err := s.fetchStatus(ctx, gw, reference)
	if err != nil {
		return fmt.Errorf("failed to fetch %s payment %s: %w", gateway, reference, err)
	}
	if status.OrderID == "" {
		log.Warn("Gateway payment carries no order id", "gateway", gateway, "reference", reference)
		return nil
	}
	if status.Outcome == payments.OutcomePending {
		return nil
	}

	_, err = s.ConfirmGatewayPayment(ctx, status.OrderID, status.Outcome)
	switch {
	case err == nil:
		return nil
	case apperrors.HasCode(err, apperrors.CodeNotFound) && status.Outcome == payments.OutcomePaid:
		log.Error("Paid payment has no order, reconcile manually",
			"gateway", gateway,
			"reference", reference,
			"order_id", status.OrderID,
		)
		metrics.IncPaymentOutcome(gateway, "orphaned")
		return fmt.Errorf("%w: %s payment %s for order %s", orderserrors.ErrOrphanedPayment, gateway, reference, status.OrderID)
	case apperrors.HasCode(err, apperrors.CodeNotFound), apperrors.HasCode(err, apperrors.CodeConflict):
		log.Info("Payment notification already reconciled", "gateway", gateway, "reference", reference, "order_id", status.OrderID)
		return nil
	default:
		return err
	}
}

func (s *orderService) UpdateStatus(ctx context.Context, id string, update *model.OrderStatusUpdate) (*model.Order, error) {
	log := s.cfg.Log.ForContext(ctx)
	update.AdminNotes = sanitizer.TrimAndNormalize(update.AdminNotes)
	update.TrackingRef = sanitizer.TrimAndNormalize(update.TrackingRef)

	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		log.Warn("Order status update validation failed", "order_id", id, "error", err)
		return nil, validation.AsAppError("Invalid status update", err)
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(order, update.Status); err != nil {
		log.Warn("Rejected order status change", "order_id", id, "from", order.Status, "to", update.Status)
		return nil, err
	}

	change := repository.StatusChange{
		From:        []string{order.Status},
		To:          update.Status,
		AdminNotes:  update.AdminNotes,
		TrackingRef: update.TrackingRef,
	}
	if update.Status == model.OrderStatusDelivered {
		paid := true
		change.Payment = &paid
	}

	updated, err := s.repo.Transition(ctx, id, change)
	if err != nil {
		if errors.Is(err, orderserrors.ErrStatusChanged) {
			return nil, apperrors.Conflict(MsgConcurrentChange)
		}
		return nil, s.translateError(ctx, id, "Failed to update order status", err)
	}

	if updated.Status != order.Status {
		metrics.IncOrderTransition(updated.Status)
		s.publish(ctx, events.OrderStatusUpdated, updated)
	}
	log.Info("Order status updated", "order_id", id, "from", order.Status, "to", updated.Status)
	return updated, nil
}

// Cancel cancels a pending or placed order and emails the customer. A
// non-empty ownerScope restricts the caller to their own orders.
func (s *orderService) Cancel(ctx context.Context, id, ownerScope string) (*CancelResult, error) {
	log := s.cfg.Log.ForContext(ctx)

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerScope != "" && order.UserID != ownerScope {
		return nil, apperrors.Forbidden("Not authorized to cancel this order")
	}
	if err := checkTransition(order, model.OrderStatusCancelled); err != nil {
		return nil, err
	}

	cancelled, err := s.repo.Transition(ctx, id, repository.StatusChange{
		From: []string{model.OrderStatusPaymentPending, model.OrderStatusPlaced},
		To:   model.OrderStatusCancelled,
	})
	if err != nil {
		if errors.Is(err, orderserrors.ErrStatusChanged) {
			if current, getErr := s.GetByID(ctx, id); getErr == nil {
				if err := checkTransition(current, model.OrderStatusCancelled); err != nil {
					return nil, err
				}
			}
			return nil, apperrors.Conflict(MsgConcurrentChange)
		}
		return nil, s.translateError(ctx, id, "Failed to cancel order", err)
	}

	metrics.IncOrderTransition(cancelled.Status)
	s.publish(ctx, events.OrderCancelled, cancelled)
	log.Info("Order cancelled", "order_id", id, "previous_status", order.Status)

	result := &CancelResult{Order: cancelled}
	subject, body, err := mailer.OrderCancelled(mailer.OrderCancelledData{
		Name:     strings.TrimSpace(cancelled.Address.FirstName + " " + cancelled.Address.LastName),
		OrderID:  cancelled.ID,
		PlacedOn: cancelled.CreatedAt,
		Items:    orderLines(cancelled.Items),
		Amount:   cancelled.Amount,
		Currency: strings.ToUpper(s.cfg.Currency),
		Notes:    cancelled.AdminNotes,
	})
	if err != nil {
		log.Error("Failed to render cancellation email", "order_id", id, "error", err)
		result.NotificationError = err.Error()
		return result, nil
	}

	sent := s.notifier.Notify(ctx, cancelled.Address.Email, subject, body)
	var notifyErr error
	if !sent.Sent {
		notifyErr = errors.New(sent.Error)
	}
	metrics.IncNotification("order_cancelled", notifyErr)
	result.NotificationSent = sent.Sent
	result.NotificationError = sent.Error
	return result, nil
}

func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Order ID cannot be empty")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(ctx, id, "Failed to retrieve order", err)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var orders []*model.Order
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count orders", "user_id", filter.UserID, "error", errCount)
			errCount = apperrors.Internal("Failed to count orders", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		orders, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list orders", "user_id", filter.UserID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve orders", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if orders == nil {
		orders = []*model.Order{}
	}

	return orders, count, nil
}

// PurgeStalePending settles gateway orders that stayed PaymentPending longer
// than PendingOrderTTL. Each one is looked up at its gateway first: paid
// orders are confirmed, pending ones are kept, and only orders the gateway
// reports as failed or holds no payment for are deleted. Lookups that fail
// leave the order for the next sweep. It returns the number deleted.
func (s *orderService) PurgeStalePending(ctx context.Context) (int64, error) {
	log := s.cfg.Log.ForContext(ctx)
	cutoff := s.now().UTC().Add(-s.cfg.PendingOrderTTL)

	stale, err := s.repo.FindStalePending(ctx, cutoff, staleBatchSize)
	if err != nil {
		log.Error("Failed to load stale pending orders", "cutoff", cutoff, "error", err)
		return 0, apperrors.Internal("Failed to purge pending orders", err)
	}

	var deleted, confirmed, kept int64
	for _, order := range stale {
		if ctx.Err() != nil {
			break
		}
		outcome, ok := s.lookupStale(ctx, order)
		if !ok || outcome == payments.OutcomePending {
			kept++
			continue
		}

		if _, err := s.ConfirmGatewayPayment(ctx, order.ID, outcome); err != nil {
			if !apperrors.HasCode(err, apperrors.CodeNotFound) && !apperrors.HasCode(err, apperrors.CodeConflict) {
				log.Error("Failed to settle stale order", "order_id", order.ID, "outcome", outcome, "error", err)
			}
			kept++
			continue
		}
		if outcome == payments.OutcomePaid {
			confirmed++
		} else {
			deleted++
		}
	}

	if len(stale) > 0 {
		log.Info("Stale pending orders swept",
			"cutoff", cutoff,
			"deleted", deleted,
			"confirmed", confirmed,
			"kept", kept,
		)
	}
	return deleted, nil
}

// lookupStale asks the order's gateway for its payment. ok is false when the
// answer cannot be trusted yet.
func (s *orderService) lookupStale(ctx context.Context, order *model.Order) (payments.Outcome, bool) {
	log := s.cfg.Log.ForContext(ctx)

	gw, err := s.gateways.Get(order.PaymentMethod)
	if err != nil {
		log.Error("Stale order has no configured gateway", "order_id", order.ID, "payment_method", order.PaymentMethod)
		return "", false
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	status, err := gw.FindOrderPayment(lookupCtx, order.ID, order.GatewayRef)
	switch {
	case errors.Is(err, payments.ErrNoPayment), errors.Is(err, payments.ErrInvalidRef):
		log.Info("Stale order has no usable payment", "order_id", order.ID, "gateway", gw.Name(), "reason", err)
		return payments.OutcomeFailed, true
	case err != nil:
		log.Warn("Stale order lookup failed, keeping it", "order_id", order.ID, "gateway", gw.Name(), "error", err)
		return "", false
	case status.OrderID != "" && status.OrderID != order.ID:
		log.Error("Gateway returned a payment of another order", "order_id", order.ID, "gateway_order_id", status.OrderID)
		return "", false
	}
	return status.Outcome, true
}

func (s *orderService) translateError(ctx context.Context, id, message string, err error) error {
	switch {
	case errors.Is(err, orderserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Order", id)
	case errors.Is(err, orderserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid order ID format")
	default:
		s.cfg.Log.ForContext(ctx).Error(message, "order_id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *orderService) publish(ctx context.Context, eventType string, o *model.Order) {
	s.publisher.Publish(ctx, events.Event{
		Type: eventType,
		Key:  o.ID,
		Payload: events.OrderPayload{
			OrderID:       o.ID,
			UserID:        o.UserID,
			Status:        o.Status,
			PaymentMethod: o.PaymentMethod,
			Payment:       o.Payment,
			Amount:        o.Amount,
		},
	})
}

func orderLines(items []model.OrderItem) []mailer.OrderLine {
	lines := make([]mailer.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, mailer.OrderLine{Name: it.Name, Size: it.Size, Quantity: it.Quantity})
	}
	return lines
}

func sanitizeOrder(req *model.OrderRequest) {
	for i := range req.Items {
		req.Items[i].ProductID = sanitizer.TrimAndNormalize(req.Items[i].ProductID)
		req.Items[i].Name = sanitizer.TrimAndNormalize(req.Items[i].Name)
		req.Items[i].Size = sanitizer.NormalizeIdentifier(req.Items[i].Size)
	}

	a := &req.Address
	a.FirstName = sanitizer.NormalizeName(a.FirstName)
	a.LastName = sanitizer.NormalizeName(a.LastName)
	a.Email = sanitizer.NormalizeEmail(a.Email)
	a.Street = sanitizer.TrimAndNormalize(a.Street)
	a.City = sanitizer.TrimAndNormalize(a.City)
	a.State = sanitizer.TrimAndNormalize(a.State)
	a.Zipcode = sanitizer.TrimAndNormalize(a.Zipcode)
	a.Country = sanitizer.TrimAndNormalize(a.Country)
	a.Phone = sanitizer.TrimAndNormalize(a.Phone)
}
