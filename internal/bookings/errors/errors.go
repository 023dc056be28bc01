package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotTaken is returned when the store's unique index on the
	// confirmed slot rejects an insert.
	ErrSlotTaken = errors.New("time slot already booked")

	ErrAlreadyCancelled = errors.New("booking already cancelled")

	ErrInvalidDate = errors.New("invalid booking date")
)
