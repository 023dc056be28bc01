package model

import (
	"time"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a confirmed or cancelled reservation of one facility slot on one
// calendar day. Date is always 00:00:00 UTC of that day.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Gym       string    `json:"gym" bson:"gym" validate:"required,min=1,max=100"`
	Facility  string    `json:"facility" bson:"facility" validate:"required,min=1,max=100"`
	Date      time.Time `json:"date" bson:"date" validate:"required"`
	TimeSlot  string    `json:"time_slot" bson:"time_slot" validate:"required,min=1,max=50"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Phone     string    `json:"phone" bson:"phone" validate:"required,e164"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the wire shape of a booking attempt. Date stays a string
// until the service normalises it.
type BookingRequest struct {
	Gym      string `json:"gym" validate:"required,max=100"`
	Facility string `json:"facility" validate:"required,max=100"`
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=30"`
}

type BookingFilter struct {
	UserID string
	Gym    string
}

// BranchMember is one distinct customer of a gym, aggregated from its bookings.
type BranchMember struct {
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"_id"`
	Phone        string    `json:"phone" bson:"phone"`
	FirstBooking time.Time `json:"first_booking" bson:"first_booking"`
	BookingCount int       `json:"booking_count" bson:"booking_count"`
}
