package errors

import "errors"

var (
	ErrNotFound = errors.New("order not found")

	ErrInvalidID = errors.New("invalid order ID format")

	// ErrStatusChanged means the order left the expected status between read
	// and write.
	ErrStatusChanged = errors.New("order status changed")

	ErrUserNotFound = errors.New("user not found")

	// ErrOrphanedPayment is a settled gateway payment whose order no longer
	// exists. It needs manual reconciliation.
	ErrOrphanedPayment = errors.New("paid payment without order")
)
