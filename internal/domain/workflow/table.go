package workflow

import "fmt"

// Transition is one row of the approval state table: from the current state,
// the given action performed by the required role moves the memo to the
// target state.
type Transition struct {
	From   State
	Action Action
	Role   Role
	To     State
}

// transitionRows is the closed set of legal transitions. Any (state, action)
// pair absent from this table is illegal; there is no fallthrough.
var transitionRows = []Transition{
	{StateDraft, ActionSubmitToDeskHead, RoleCreator, StatePendingDeskHead},
	{StateReturnedToCreator, ActionSubmitToDeskHead, RoleCreator, StatePendingDeskHead},
	{StatePendingDeskHead, ActionSubmitToLEO, RoleDeskHead, StatePendingLEO},
	{StatePendingDeskHead, ActionReturnToCreator, RoleDeskHead, StateReturnedToCreator},
	{StatePendingDeskHead, ActionReject, RoleDeskHead, StateRejected},
	{StatePendingLEO, ActionApprove, RoleLEO, StateApproved},
	{StatePendingLEO, ActionReject, RoleLEO, StateRejected},
	{StatePendingLEO, ActionReturnToCreator, RoleLEO, StateReturnedToCreator},
}

type tableKey struct {
	from   State
	action Action
}

var stateTable map[tableKey]Transition

func init() {
	stateTable = make(map[tableKey]Transition, len(transitionRows))
	for _, row := range transitionRows {
		if !row.From.IsValid() || !row.To.IsValid() {
			panic(fmt.Sprintf("state table references invalid state: %+v", row))
		}
		if !row.Action.IsValid() || !row.Role.IsValid() {
			panic(fmt.Sprintf("state table references invalid action or role: %+v", row))
		}
		key := tableKey{row.From, row.Action}
		if _, exists := stateTable[key]; exists {
			panic(fmt.Sprintf("duplicate state table entry: %s/%s", row.From, row.Action))
		}
		stateTable[key] = row
	}
}

// Lookup returns the transition for the given (state, action) pair, or false
// if the pair is not in the table.
func Lookup(from State, action Action) (Transition, bool) {
	t, ok := stateTable[tableKey{from, action}]
	return t, ok
}

// Transitions returns a copy of every row in the state table
func Transitions() []Transition {
	rows := make([]Transition, len(transitionRows))
	copy(rows, transitionRows)
	return rows
}

// PermittedActions returns the actions that have a table entry from the given
// state, regardless of role.
func PermittedActions(from State) []Action {
	var actions []Action
	for _, row := range transitionRows {
		if row.From == from {
			actions = append(actions, row.Action)
		}
	}
	return actions
}

// PermittedActionsForRole returns the actions the given role may perform from
// the given state. Presentation layers use this to render only the buttons
// the backend would accept.
func PermittedActionsForRole(from State, role Role) []Action {
	var actions []Action
	for _, row := range transitionRows {
		if row.From == from && row.Role == role {
			actions = append(actions, row.Action)
		}
	}
	return actions
}
