package workflow

// State represents a memo's position in the approval lifecycle
type State string

const (
	StateDraft             State = "DRAFT"
	StatePendingDeskHead   State = "PENDING_DESK_HEAD"
	StatePendingLEO        State = "PENDING_LEO"
	StateApproved          State = "APPROVED"
	StateRejected          State = "REJECTED"
	StateReturnedToCreator State = "RETURNED_TO_CREATOR"
)

// InitialState is the state every memo is created in
const InitialState = StateDraft

var validStates = map[State]bool{
	StateDraft:             true,
	StatePendingDeskHead:   true,
	StatePendingLEO:        true,
	StateApproved:          true,
	StateRejected:          true,
	StateReturnedToCreator: true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// States returns every valid workflow state
func States() []State {
	return []State{
		StateDraft,
		StatePendingDeskHead,
		StatePendingLEO,
		StateApproved,
		StateRejected,
		StateReturnedToCreator,
	}
}
