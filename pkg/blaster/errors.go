package blaster

import "errors"

var (
	// ErrNotFound indicates a stored code was not found
	ErrNotFound = errors.New("code not found")

	// ErrTimeout indicates a firmware call timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrNotConnected indicates the transceiver transport is down
	ErrNotConnected = errors.New("blaster not connected")

	// ErrValidation indicates a transmit payload failed schema validation
	ErrValidation = errors.New("validation error")
)
