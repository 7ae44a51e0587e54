// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Workflow errors.
	ErrAlreadyDecided = errors.New("recommendation already decided")
	ErrInvalidStatus  = errors.New("invalid recommendation status")
	ErrEmptyReason    = errors.New("rejection reason cannot be empty")
	ErrEmptyActor     = errors.New("operator identity cannot be empty")

	// Parameter errors.
	ErrNilParameter = errors.New("parameter cannot be nil")
)
