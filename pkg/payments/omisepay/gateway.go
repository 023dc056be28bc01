package omisepay

import (
	"context"
	"fmt"
	"math"
	"time"

	"gymstore/pkg/model"
	"gymstore/pkg/payments"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

const metadataOrderID = "order_id"

type chargeAPI interface {
	CreateSource(op *operations.CreateSource) (*omise.Source, error)
	CreateCharge(op *operations.CreateCharge) (*omise.Charge, error)
	RetrieveCharge(id string) (*omise.Charge, error)
}

// Gateway creates an offsite source plus a charge against it. The charge id
// is the session id and the charge's authorize URI is the redirect.
type Gateway struct {
	api        chargeAPI
	sourceType string
}

func New(publicKey, secretKey, sourceType string, timeout time.Duration) (*Gateway, error) {
	c, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create omise client: %w", err)
	}
	c.Client.Timeout = timeout
	return &Gateway{api: sdkClient{c: c}, sourceType: sourceType}, nil
}

func (g *Gateway) Name() string {
	return model.PaymentMethodOmise
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.Session, error) {
	amount := toSubunits(req.Total())

	src, err := g.api.CreateSource(&operations.CreateSource{
		Type:     g.sourceType,
		Amount:   amount,
		Currency: req.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	ch, err := g.api.CreateCharge(&operations.CreateCharge{
		Amount:    amount,
		Currency:  req.Currency,
		Source:    src.ID,
		ReturnURI: req.SuccessURL,
		Metadata:  map[string]any{metadataOrderID: req.OrderID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	return &payments.Session{
		ID:          ch.ID,
		RedirectURL: ch.AuthorizeURI,
	}, nil
}

func (g *Gateway) FetchOrderStatus(ctx context.Context, reference string) (*payments.PaymentStatus, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: empty charge id", payments.ErrInvalidRef)
	}

	ch, err := g.api.RetrieveCharge(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve charge: %w", err)
	}

	orderID, _ := ch.Metadata[metadataOrderID].(string)
	return &payments.PaymentStatus{
		OrderID:   orderID,
		Reference: ch.ID,
		Outcome:   outcomeOf(string(ch.Status)),
	}, nil
}

// FindOrderPayment retrieves the charge opened at checkout. Without a stored
// charge id there is nothing to look up.
func (g *Gateway) FindOrderPayment(ctx context.Context, orderID, sessionRef string) (*payments.PaymentStatus, error) {
	if sessionRef == "" {
		return nil, fmt.Errorf("%w: order %s has no charge", payments.ErrNoPayment, orderID)
	}

	st, err := g.FetchOrderStatus(ctx, sessionRef)
	if err != nil {
		return nil, err
	}
	if st.OrderID != "" && st.OrderID != orderID {
		return nil, fmt.Errorf("%w: charge %s belongs to order %s", payments.ErrInvalidRef, sessionRef, st.OrderID)
	}
	st.OrderID = orderID
	return st, nil
}

func outcomeOf(status string) payments.Outcome {
	switch status {
	case "successful":
		return payments.OutcomePaid
	case "failed", "expired", "reversed":
		return payments.OutcomeFailed
	default:
		return payments.OutcomePending
	}
}

// toSubunits converts a major-unit amount to the smallest currency unit.
func toSubunits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type sdkClient struct {
	c *omise.Client
}

func (s sdkClient) CreateSource(op *operations.CreateSource) (*omise.Source, error) {
	src := &omise.Source{}
	if err := s.c.Do(src, op); err != nil {
		return nil, err
	}
	return src, nil
}

func (s sdkClient) CreateCharge(op *operations.CreateCharge) (*omise.Charge, error) {
	ch := &omise.Charge{}
	if err := s.c.Do(ch, op); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s sdkClient) RetrieveCharge(id string) (*omise.Charge, error) {
	ch := &omise.Charge{}
	if err := s.c.Do(ch, &operations.RetrieveCharge{ChargeID: id}); err != nil {
		return nil, err
	}
	return ch, nil
}
