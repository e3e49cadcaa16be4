package batch

import "errors"

var (
	// ErrSourceUnavailable is returned when the password list cannot be read.
	ErrSourceUnavailable = errors.New("password source unavailable")

	// ErrAborted is returned when the run stopped before every candidate was
	// checked, either because of PolicyAbort or context cancellation.
	ErrAborted = errors.New("batch aborted")

	// ErrInvalidEncoding is wrapped together with ErrSourceUnavailable when a
	// line is not valid UTF-8.
	ErrInvalidEncoding = errors.New("password source is not valid UTF-8")

	ErrOutputFailed  = errors.New("failed to write accepted passwords")
	ErrInvalidPolicy = errors.New("invalid lookup error policy")
)
