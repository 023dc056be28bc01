package payments

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	ErrUnknownGateway = errors.New("payment gateway not configured")
	ErrInvalidRef     = errors.New("invalid gateway reference")
	// ErrNoPayment means the gateway holds no payment attempt for an order.
	ErrNoPayment = errors.New("no payment recorded for order")
)

type Outcome string

const (
	OutcomePaid    Outcome = "paid"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
)

type LineItem struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

type CheckoutRequest struct {
	OrderID    string
	Currency   string
	Email      string
	Items      []LineItem
	SuccessURL string
	FailureURL string
}

// Total sums unit price times quantity over all items.
func (r CheckoutRequest) Total() float64 {
	var total float64
	for _, it := range r.Items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Session is a hosted checkout. ID is stored on the order as its gateway
// reference; RedirectURL is where the customer completes payment.
type Session struct {
	ID          string `json:"session_id"`
	RedirectURL string `json:"session_url"`
}

type PaymentStatus struct {
	OrderID   string
	Reference string
	Outcome   Outcome
}

type Gateway interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	// FetchOrderStatus reads one payment by the id the gateway handed out
	// for it (redirect parameter or webhook).
	FetchOrderStatus(ctx context.Context, reference string) (*PaymentStatus, error)
	// FindOrderPayment resolves the payment state of an order from the
	// gateway's side. sessionRef is the reference stored when the checkout
	// was opened and may be empty.
	FindOrderPayment(ctx context.Context, orderID, sessionRef string) (*PaymentStatus, error)
}

// Registry resolves the gateway serving a payment method.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		if g != nil {
			r.gateways[g.Name()] = g
		}
	}
	return r
}

func (r *Registry) Get(method string) (Gateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGateway, method)
	}
	return g, nil
}

// VerifyURLs builds the redirect targets that land the customer back on the
// storefront's verification page.
func VerifyURLs(origin, orderID string) (success, failure string) {
	build := func(ok string) string {
		q := url.Values{}
		q.Set("success", ok)
		q.Set("orderId", orderID)
		return origin + "/verify?" + q.Encode()
	}
	return build("true"), build("false")
}
