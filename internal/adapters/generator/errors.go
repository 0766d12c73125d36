package generator

import "errors"

var (
	// ErrUnavailable indicates the generation service is unreachable.
	ErrUnavailable = errors.New("plan generator unavailable")

	// ErrTimeout indicates the generation request exceeded the configured timeout.
	ErrTimeout = errors.New("plan generation timed out")

	// ErrInvalidOutput indicates the service response could not be parsed
	// into a plan.
	ErrInvalidOutput = errors.New("invalid generator output")
)
