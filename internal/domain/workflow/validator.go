package workflow

import (
	"fmt"
	"strings"
)

// Validate decides whether an actor in the given role may apply the action to
// a memo in the current state. On success it returns the resulting state.
//
// Validate is pure: no I/O, no side effects, deterministic given its inputs.
// Every state-changing action must carry a non-blank justification comment;
// that check applies before the table is consulted, so a blank comment fails
// with ErrMissingJustification even for combinations the table would reject.
func Validate(current State, action Action, role Role, comment string) (State, error) {
	if strings.TrimSpace(comment) == "" {
		return "", fmt.Errorf("%w: action %s", ErrMissingJustification, action)
	}

	row, ok := Lookup(current, action)
	if !ok {
		return "", fmt.Errorf("%w: cannot apply %s from state %s", ErrIllegalTransition, action, current)
	}

	if row.Role != role {
		return "", fmt.Errorf("%w: %s from state %s requires role %s, got %s",
			ErrUnauthorized, action, current, row.Role, role)
	}

	return row.To, nil
}
