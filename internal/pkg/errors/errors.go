package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrGenerationFailed marks content-generator errors. Callers are expected
	// to recover with fallback content, never to surface this to the client.
	ErrGenerationFailed = errors.New("generation failed")
)
