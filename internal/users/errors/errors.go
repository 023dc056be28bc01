package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrInvalidID = errors.New("invalid user ID format")

	ErrEmailTaken = errors.New("email already registered")

	// ErrCredentialsChanged means the password was changed by another session.
	ErrCredentialsChanged = errors.New("credentials changed")

	// ErrOTPConsumed means the login code was used or replaced in between.
	ErrOTPConsumed = errors.New("login code no longer valid")
)
