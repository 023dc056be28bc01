package mercadopago

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gymstore/pkg/model"
	"gymstore/pkg/payments"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentAPI interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
	Search(ctx context.Context, request payment.SearchRequest) (*payment.SearchResponse, error)
}

const searchLimit = 30

// Gateway creates Checkout Pro preferences and reads payment outcomes.
// The order id travels as the preference's external reference.
type Gateway struct {
	preferences     preferenceCreator
	payments        paymentAPI
	notificationURL string
	timeout         time.Duration
}

func New(accessToken, notificationURL string, timeout time.Duration) (*Gateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create mercadopago config: %w", err)
	}
	return &Gateway{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: notificationURL,
		timeout:         timeout,
	}, nil
}

func (g *Gateway) Name() string {
	return model.PaymentMethodMercadoPago
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, preference.ItemRequest{
			Title:      it.Name,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			CurrencyID: strings.ToUpper(req.Currency),
		})
	}

	prefReq := preference.Request{
		Items:             items,
		ExternalReference: req.OrderID,
		AutoReturn:        "approved",
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
			Pending: req.SuccessURL,
		},
		NotificationURL: g.notificationURL,
	}
	if req.Email != "" {
		prefReq.Payer = &preference.PayerRequest{Email: req.Email}
	}

	res, err := g.preferences.Create(ctx, prefReq)
	if err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}

	return &payments.Session{
		ID:          res.ID,
		RedirectURL: res.InitPoint,
	}, nil
}

// FetchOrderStatus reads a payment by its numeric id, as carried by the
// payment_id redirect parameter and by webhook notifications.
func (g *Gateway) FetchOrderStatus(ctx context.Context, reference string) (*payments.PaymentStatus, error) {
	id, err := strconv.Atoi(reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a payment id", payments.ErrInvalidRef, reference)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payments.PaymentStatus{
		OrderID:   res.ExternalReference,
		Reference: reference,
		Outcome:   outcomeOf(res.Status),
	}, nil
}

// FindOrderPayment searches payments by external reference. The stored
// session reference is a preference id, which the payments API cannot be
// queried by. One approved attempt settles the order; any attempt still in
// flight keeps it pending.
func (g *Gateway) FindOrderPayment(ctx context.Context, orderID, _ string) (*payments.PaymentStatus, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: empty order id", payments.ErrInvalidRef)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.payments.Search(ctx, payment.SearchRequest{
		Filters: map[string]string{"external_reference": orderID},
		Limit:   searchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search payments: %w", err)
	}
	if len(res.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", payments.ErrNoPayment, orderID)
	}

	found := &payments.PaymentStatus{OrderID: orderID, Outcome: payments.OutcomeFailed}
	for _, p := range res.Results {
		ref := strconv.Itoa(p.ID)
		switch outcomeOf(p.Status) {
		case payments.OutcomePaid:
			return &payments.PaymentStatus{OrderID: orderID, Reference: ref, Outcome: payments.OutcomePaid}, nil
		case payments.OutcomePending:
			found.Outcome, found.Reference = payments.OutcomePending, ref
		default:
			if found.Reference == "" {
				found.Reference = ref
			}
		}
	}
	return found, nil
}

func outcomeOf(status string) payments.Outcome {
	switch status {
	case "approved", "authorized":
		return payments.OutcomePaid
	case "rejected", "cancelled", "refunded", "charged_back":
		return payments.OutcomeFailed
	default:
		return payments.OutcomePending
	}
}
