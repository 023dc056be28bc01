package validator

import (
	"gymstore/pkg/logger"
	"gymstore/pkg/model"
	"gymstore/pkg/validation"
)

type OrderValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewOrderValidator(log *logger.Logger) *OrderValidator {
	log.Info("Order validator initialized successfully")
	return &OrderValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *OrderValidator) ValidateRequest(req *model.OrderRequest) error {
	return v.validate.Struct(req)
}

func (v *OrderValidator) ValidateStatusUpdate(req *model.OrderStatusUpdate) error {
	return v.validate.Struct(req)
}

func (v *OrderValidator) ValidateVerify(req *model.VerifyPaymentRequest) error {
	return v.validate.Struct(req)
}
