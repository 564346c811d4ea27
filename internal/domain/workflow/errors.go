package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when a station cannot move to the requested state
	ErrInvalidTransition = errors.New("invalid station transition")

	// ErrInvalidState is returned for a value outside pending/processing/completed/na
	ErrInvalidState = errors.New("invalid station state")

	// ErrGuardFailed is returned when every candidate transition was vetoed by its guard
	ErrGuardFailed = errors.New("guard condition failed")

	// ErrUnknownStation is returned for an id outside the fixed pipeline
	ErrUnknownStation = errors.New("unknown station")
)
