package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when no transition is defined for the
	// (state, action) pair, or the acting role does not match the one the
	// transition requires
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")
)
