package pwned

import "errors"

// Every lookup error wraps ErrLookupFailed so callers can tell "the lookup
// did not complete" apart from a verdict about the password.
var (
	ErrLookupFailed = errors.New("breach lookup failed")

	ErrInvalidPrefix     = errors.New("invalid hash prefix")
	ErrInvalidBaseURL    = errors.New("invalid breach API base URL")
	ErrTimeout           = errors.New("breach lookup timed out")
	ErrTransport         = errors.New("breach lookup transport error")
	ErrUnexpectedStatus  = errors.New("unexpected breach API status")
	ErrMalformedResponse = errors.New("malformed breach API response")
)
