package validator

import "errors"

var (
	// ErrValidationFailed is the identity every *Failure matches with errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInfrastructure is returned when a rule could not reach a verdict,
	// e.g. the breach lookup failed. It is never a statement about the password.
	ErrInfrastructure = errors.New("infrastructure failure")

	// ErrNilLookup is returned by the pwned rule when no lookup was configured.
	ErrNilLookup = errors.New("breach lookup is not configured")
)
