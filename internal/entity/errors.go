package entity

import "errors"

// Domain errors
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrUnknownField    = errors.New("unknown profile field")

	// Onboarding errors
	ErrStepConflict = errors.New("onboarding step changed concurrently")

	// Completion service errors
	ErrUpstreamUnavailable = errors.New("completion service unavailable")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
