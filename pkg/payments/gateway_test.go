package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct{ name string }

func (s stubGateway) Name() string { return s.name }
func (s stubGateway) CreateCheckoutSession(context.Context, CheckoutRequest) (*Session, error) {
	return &Session{}, nil
}
func (s stubGateway) FetchOrderStatus(context.Context, string) (*PaymentStatus, error) {
	return &PaymentStatus{}, nil
}
func (s stubGateway) FindOrderPayment(context.Context, string, string) (*PaymentStatus, error) {
	return nil, ErrNoPayment
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubGateway{name: "MercadoPago"}, nil)

	g, err := r.Get("MercadoPago")
	require.NoError(t, err)
	assert.Equal(t, "MercadoPago", g.Name())

	_, err = r.Get("Omise")
	assert.ErrorIs(t, err, ErrUnknownGateway)
}

func TestVerifyURLs(t *testing.T) {
	success, failure := VerifyURLs("https://shop.example.com", "665f1c2ab3e4d5f6a7b8c9d0")
	assert.Equal(t, "https://shop.example.com/verify?orderId=665f1c2ab3e4d5f6a7b8c9d0&success=true", success)
	assert.Equal(t, "https://shop.example.com/verify?orderId=665f1c2ab3e4d5f6a7b8c9d0&success=false", failure)
}

func TestCheckoutRequest_Total(t *testing.T) {
	req := CheckoutRequest{Items: []LineItem{
		{Name: "Shirt", UnitPrice: 250, Quantity: 2},
		{Name: "Delivery Charges", UnitPrice: 10, Quantity: 1},
	}}
	assert.InDelta(t, 510.0, req.Total(), 0.0001)
}
