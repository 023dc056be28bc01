package service

import (
	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/model"
)

const (
	MsgAlreadyCancelled   = "Order is already cancelled"
	MsgDeliveredNoCancel  = "Delivered orders cannot be cancelled"
	MsgAwaitingPayment    = "Order is awaiting payment"
	MsgNoReturnToPending  = "Orders cannot return to PaymentPending"
	MsgTerminalOrder      = "Order status can no longer change"
	MsgConcurrentChange   = "Order status changed concurrently, please retry"
	MsgNotAwaitingPayment = "Order is no longer awaiting payment"
)

// checkTransition enforces the order state machine:
//
//	PaymentPending -> OrderPlaced -> Delivered
//	PaymentPending | OrderPlaced -> Cancelled
//
// PaymentPending is left for OrderPlaced only through a confirmed gateway
// payment, never by an admin update. Delivery marks COD orders as paid, so a
// gateway order may only be delivered once its payment is confirmed.
// Re-applying the current status is
// allowed so notes and tracking can be edited.
func checkTransition(order *model.Order, to string) error {
	from := order.Status
	switch {
	case from == model.OrderStatusCancelled && to == model.OrderStatusCancelled:
		return apperrors.Conflict(MsgAlreadyCancelled)
	case from == model.OrderStatusDelivered && to == model.OrderStatusCancelled:
		return apperrors.Conflict(MsgDeliveredNoCancel)
	case from == to:
		return nil
	case order.IsTerminal():
		return apperrors.Conflict(MsgTerminalOrder)
	case to == model.OrderStatusPaymentPending:
		return apperrors.Conflict(MsgNoReturnToPending)
	case from == model.OrderStatusPaymentPending && to != model.OrderStatusCancelled:
		return apperrors.Conflict(MsgAwaitingPayment)
	case to == model.OrderStatusDelivered && order.IsGatewayPaid() && !order.Payment:
		return apperrors.Conflict(MsgAwaitingPayment)
	}
	return nil
}
