package workflow

import "errors"

var (
	// ErrIllegalTransition is returned when the (state, action) pair has no
	// entry in the state table
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrUnauthorized is returned when the transition exists but the actor's
	// role does not match the required role
	ErrUnauthorized = errors.New("role not authorized for action")

	// ErrMissingJustification is returned when a state-changing action carries
	// no comment
	ErrMissingJustification = errors.New("justification comment is required")

	// ErrInvalidState is returned when a state is not a known workflow state
	ErrInvalidState = errors.New("invalid workflow state")
)
