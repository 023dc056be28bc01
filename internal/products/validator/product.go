package validator

import (
	"gymstore/pkg/logger"
	"gymstore/pkg/model"
	"gymstore/pkg/validation"
)

type ProductValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewProductValidator(log *logger.Logger) *ProductValidator {
	log.Info("Product validator initialized successfully")
	return &ProductValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *ProductValidator) Validate(product *model.Product) error {
	return v.validate.Struct(product)
}
