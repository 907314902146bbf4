package workflow

// Action represents a requested workflow transition
type Action string

const (
	ActionSubmitToDeskHead Action = "SUBMIT_TO_DESK_HEAD"
	ActionSubmitToLEO      Action = "SUBMIT_TO_LEO"
	ActionApprove          Action = "APPROVE"
	ActionReject           Action = "REJECT"
	ActionReturnToCreator  Action = "RETURN_TO_CREATOR"
)

var validActions = map[Action]bool{
	ActionSubmitToDeskHead: true,
	ActionSubmitToLEO:      true,
	ActionApprove:          true,
	ActionReject:           true,
	ActionReturnToCreator:  true,
}

// IsValid returns true if the action is a known workflow action
func (a Action) IsValid() bool {
	return validActions[a]
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}

// Actions returns every known workflow action
func Actions() []Action {
	return []Action{
		ActionSubmitToDeskHead,
		ActionSubmitToLEO,
		ActionApprove,
		ActionReject,
		ActionReturnToCreator,
	}
}
