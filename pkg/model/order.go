package model

import (
	"time"
)

const (
	OrderStatusPaymentPending = "PaymentPending"
	OrderStatusPlaced         = "OrderPlaced"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

const (
	PaymentMethodCOD         = "COD"
	PaymentMethodMercadoPago = "MercadoPago"
	PaymentMethodOmise       = "Omise"
)

type Order struct {
	ID            string      `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string      `json:"user_id" bson:"user_id"`
	Items         []OrderItem `json:"items" bson:"items"`
	Address       Address     `json:"address" bson:"address"`
	Amount        float64     `json:"amount" bson:"amount"`
	PaymentMethod string      `json:"payment_method" bson:"payment_method"`
	Payment       bool        `json:"payment" bson:"payment"`
	Status        string      `json:"status" bson:"status"`
	AdminNotes    string      `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	TrackingRef   string      `json:"tracking_ref,omitempty" bson:"tracking_ref,omitempty"`
	GatewayRef    string      `json:"gateway_ref,omitempty" bson:"gateway_ref,omitempty"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" bson:"updated_at"`
}

// OrderItem captures the product price at checkout time.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id" validate:"required"`
	Name      string  `json:"name" bson:"name" validate:"required,max=200"`
	Size      string  `json:"size,omitempty" bson:"size,omitempty" validate:"omitempty,max=20"`
	Quantity  int     `json:"quantity" bson:"quantity" validate:"required,min=1,max=1000"`
	Price     float64 `json:"price" bson:"price" validate:"gte=0"`
}

type Address struct {
	FirstName string `json:"first_name" bson:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" bson:"last_name" validate:"required,max=100"`
	Email     string `json:"email" bson:"email" validate:"required,email"`
	Street    string `json:"street" bson:"street" validate:"required,max=200"`
	City      string `json:"city" bson:"city" validate:"required,max=100"`
	State     string `json:"state" bson:"state" validate:"required,max=100"`
	Zipcode   string `json:"zipcode" bson:"zipcode" validate:"required,max=20"`
	Country   string `json:"country" bson:"country" validate:"required,max=100"`
	Phone     string `json:"phone" bson:"phone" validate:"required,max=30"`
}

type OrderRequest struct {
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
	Amount        float64     `json:"amount" validate:"required,gt=0"`
	Address       Address     `json:"address" validate:"required"`
	PaymentMethod string      `json:"payment_method" validate:"required,oneof=COD MercadoPago Omise"`
}

type OrderStatusUpdate struct {
	Status      string `json:"status" validate:"required,oneof=PaymentPending OrderPlaced Delivered Cancelled"`
	AdminNotes  string `json:"admin_notes,omitempty" validate:"omitempty,max=1000"`
	TrackingRef string `json:"tracking_ref,omitempty" validate:"omitempty,max=200"`
}

// IsTerminal reports whether no further status transition is allowed.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// IsGatewayPaid reports whether the order is settled through an online
// gateway rather than cash on delivery.
func (o *Order) IsGatewayPaid() bool {
	return o.PaymentMethod != PaymentMethodCOD
}

type OrderFilter struct {
	UserID string
	Status string
}

// VerifyPaymentRequest is posted by the storefront when the customer lands
// back from a hosted checkout. Reference overrides the stored gateway ref,
// e.g. the payment id Mercado Pago appends to the return URL.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	Success   string `json:"success" validate:"required,oneof=true false"`
	Reference string `json:"reference,omitempty" validate:"omitempty,max=200"`
}
