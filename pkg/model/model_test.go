package model

import (
	"testing"
	"time"

	"gymstore/pkg/validation"

	"github.com/stretchr/testify/assert"
)

func TestOrder_IsTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{OrderStatusPaymentPending, false},
		{OrderStatusPlaced, false},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			o := &Order{Status: tt.status}
			assert.Equal(t, tt.terminal, o.IsTerminal())
		})
	}
}

func TestOrder_IsGatewayPaid(t *testing.T) {
	assert.False(t, (&Order{PaymentMethod: PaymentMethodCOD}).IsGatewayPaid())
	assert.True(t, (&Order{PaymentMethod: PaymentMethodMercadoPago}).IsGatewayPaid())
	assert.True(t, (&Order{PaymentMethod: PaymentMethodOmise}).IsGatewayPaid())
}

func TestProduct_DiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 200, 0, 200},
		{"quarter off", 200, 25, 150},
		{"free", 80, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Price: tt.price, Discount: tt.discount}
			assert.InDelta(t, tt.want, p.DiscountedPrice(), 0.0001)
		})
	}
}

func TestBooking_Tags(t *testing.T) {
	v := validation.New()
	valid := Booking{
		Gym:      "Downtown",
		Facility: "Squash Court",
		Date:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot: "07:00-08:00",
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+919812345678",
		Status:   BookingStatusConfirmed,
	}
	assert.NoError(t, v.Struct(valid))

	tests := []struct {
		name   string
		mutate func(b *Booking)
	}{
		{"missing gym", func(b *Booking) { b.Gym = "" }},
		{"phone not e164", func(b *Booking) { b.Phone = "98123 45678" }},
		{"unknown status", func(b *Booking) { b.Status = "pending" }},
		{"short name", func(b *Booking) { b.Name = "A" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			assert.Error(t, v.Struct(b))
		})
	}
}

func TestOrderStatusUpdate_Tags(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Struct(OrderStatusUpdate{Status: OrderStatusDelivered, TrackingRef: "DHL-1"}))
	assert.Error(t, v.Struct(OrderStatusUpdate{Status: "Shipped"}))
}

func TestChangePasswordRequest_Tags(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Struct(ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "new-secret"}))
	assert.Error(t, v.Struct(ChangePasswordRequest{CurrentPassword: "same-secret", NewPassword: "same-secret"}))
	assert.Error(t, v.Struct(ChangePasswordRequest{CurrentPassword: "old-secret", NewPassword: "short"}))
}
