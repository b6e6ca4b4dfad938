package service

import "errors"

var (
	// ErrInvalidClaim is returned when the computed claim amount is not
	// strictly positive; nothing is persisted
	ErrInvalidClaim = errors.New("claim amount must be greater than zero")

	// ErrMissingComment is returned when a review carries no comment; the
	// state machine is never invoked
	ErrMissingComment = errors.New("a comment is required to approve or reject")

	// ErrForbidden is returned when the actor lacks authorization for the
	// requested action on the current expense state
	ErrForbidden = errors.New("actor is not authorized for this action")

	// ErrNotFound is returned when the referenced expense does not exist
	ErrNotFound = errors.New("expense not found")
)
