package events

import "time"

type BookingPayload struct {
	BookingID string    `json:"booking_id"`
	Gym       string    `json:"gym"`
	Facility  string    `json:"facility"`
	Date      time.Time `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
}

type OrderPayload struct {
	OrderID       string  `json:"order_id"`
	UserID        string  `json:"user_id"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	Payment       bool    `json:"payment"`
	Amount        float64 `json:"amount"`
}

// PaymentNotificationPayload is a gateway webhook queued for reconciliation.
// Reference is the gateway's own id (payment id, charge id).
type PaymentNotificationPayload struct {
	Gateway    string    `json:"gateway"`
	Reference  string    `json:"reference"`
	OrderID    string    `json:"order_id,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}
