package workflow

import "testing"

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateDraft, false},
		{StatePendingDeskHead, false},
		{StatePendingLEO, false},
		{StateReturnedToCreator, false},
		{StateApproved, true},
		{StateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"valid state", StateDraft, true},
		{"valid state", StateApproved, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLookup_EveryLegalRow(t *testing.T) {
	tests := []struct {
		from   State
		action Action
		role   Role
		to     State
	}{
		{StateDraft, ActionSubmitToDeskHead, RoleCreator, StatePendingDeskHead},
		{StateReturnedToCreator, ActionSubmitToDeskHead, RoleCreator, StatePendingDeskHead},
		{StatePendingDeskHead, ActionSubmitToLEO, RoleDeskHead, StatePendingLEO},
		{StatePendingDeskHead, ActionReturnToCreator, RoleDeskHead, StateReturnedToCreator},
		{StatePendingDeskHead, ActionReject, RoleDeskHead, StateRejected},
		{StatePendingLEO, ActionApprove, RoleLEO, StateApproved},
		{StatePendingLEO, ActionReject, RoleLEO, StateRejected},
		{StatePendingLEO, ActionReturnToCreator, RoleLEO, StateReturnedToCreator},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			row, ok := Lookup(tt.from, tt.action)
			if !ok {
				t.Fatalf("Lookup(%s, %s) not found, want %s", tt.from, tt.action, tt.to)
			}
			if row.To != tt.to {
				t.Errorf("Lookup(%s, %s).To = %s, want %s", tt.from, tt.action, row.To, tt.to)
			}
			if row.Role != tt.role {
				t.Errorf("Lookup(%s, %s).Role = %s, want %s", tt.from, tt.action, row.Role, tt.role)
			}
		})
	}

	if len(Transitions()) != len(tests) {
		t.Errorf("state table has %d rows, want %d", len(Transitions()), len(tests))
	}
}

// Every (state, action) pair absent from the table must fail the lookup.
// The table is closed: there is no default transition.
func TestLookup_AbsentPairsAreIllegal(t *testing.T) {
	legal := make(map[tableKey]bool)
	for _, row := range Transitions() {
		legal[tableKey{row.From, row.Action}] = true
	}

	for _, state := range States() {
		for _, action := range Actions() {
			if legal[tableKey{state, action}] {
				continue
			}
			if _, ok := Lookup(state, action); ok {
				t.Errorf("Lookup(%s, %s) found a transition, want none", state, action)
			}
		}
	}
}

func TestLookup_TerminalStatesHaveNoOutgoingRows(t *testing.T) {
	for _, state := range []State{StateApproved, StateRejected} {
		if actions := PermittedActions(state); len(actions) != 0 {
			t.Errorf("PermittedActions(%s) = %v, want none", state, actions)
		}
	}
}

func TestPermittedActions(t *testing.T) {
	actions := PermittedActions(StatePendingDeskHead)
	if len(actions) != 3 {
		t.Fatalf("PermittedActions(PENDING_DESK_HEAD) = %v, want 3 actions", actions)
	}
}

func TestPermittedActionsForRole(t *testing.T) {
	tests := []struct {
		name  string
		state State
		role  Role
		want  int
	}{
		{"desk head in desk review", StatePendingDeskHead, RoleDeskHead, 3},
		{"creator in desk review", StatePendingDeskHead, RoleCreator, 0},
		{"creator in draft", StateDraft, RoleCreator, 1},
		{"leo in executive review", StatePendingLEO, RoleLEO, 3},
		{"leo in draft", StateDraft, RoleLEO, 0},
		{"creator after return", StateReturnedToCreator, RoleCreator, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PermittedActionsForRole(tt.state, tt.role); len(got) != tt.want {
				t.Errorf("PermittedActionsForRole(%s, %s) = %v, want %d actions",
					tt.state, tt.role, got, tt.want)
			}
		})
	}
}
