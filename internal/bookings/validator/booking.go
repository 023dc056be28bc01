package validator

import (
	"gymstore/pkg/logger"
	"gymstore/pkg/model"
	"gymstore/pkg/validation"
)

type BookingValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	log.Info("Booking validator initialized successfully")
	return &BookingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// ValidateRequest checks the raw request before the date is parsed.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	return v.validate.Struct(req)
}

// Validate checks a booking after normalisation, when the phone number must
// already be in E.164 form.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	return v.validate.Struct(booking)
}
