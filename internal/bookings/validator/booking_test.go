package validator

import (
	"errors"
	"testing"
	"time"

	"gymstore/pkg/logger"
	"gymstore/pkg/model"
	"gymstore/pkg/validation"
)

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Gym:      "A",
		Facility: "pool",
		Date:     "2024-06-01",
		TimeSlot: "18:00-19:00",
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+919812345678",
	}
}

func TestValidateRequest(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		wantField string
	}{
		{"valid", func(r *model.BookingRequest) {}, ""},
		{"missing gym", func(r *model.BookingRequest) { r.Gym = "" }, "gym"},
		{"missing facility", func(r *model.BookingRequest) { r.Facility = "" }, "facility"},
		{"missing date", func(r *model.BookingRequest) { r.Date = "" }, "date"},
		{"missing slot", func(r *model.BookingRequest) { r.TimeSlot = "" }, "time_slot"},
		{"missing name", func(r *model.BookingRequest) { r.Name = "" }, "name"},
		{"bad email", func(r *model.BookingRequest) { r.Email = "asha" }, "email"},
		{"missing phone", func(r *model.BookingRequest) { r.Phone = "" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := v.ValidateRequest(req)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation errors, got %v", err)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidate_RequiresE164Phone(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	b := &model.Booking{
		Gym:      "A",
		Facility: "pool",
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot: "18:00-19:00",
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "98123 45678",
		Status:   model.BookingStatusConfirmed,
	}

	if err := v.Validate(b); err == nil {
		t.Fatal("expected error for non E.164 phone")
	}

	b.Phone = "+919812345678"
	if err := v.Validate(b); err != nil {
		t.Fatalf("expected valid booking, got %v", err)
	}
}
