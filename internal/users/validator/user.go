package validator

import (
	"gymstore/pkg/logger"
	"gymstore/pkg/validation"
)

type UserValidator struct {
	validate *validation.Validator
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	log.Info("User validator initialized successfully")
	return &UserValidator{
		validate: validation.New(),
		logger:   log,
	}
}

// Validate checks any of the user request types in pkg/model.
func (v *UserValidator) Validate(req any) error {
	return v.validate.Struct(req)
}
