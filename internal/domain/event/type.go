package event

// Type identifies the type of domain event
type Type string

const (
	TypeMemoCreated   Type = "memo.created"
	TypeStatusChanged Type = "memo.status_changed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeMemoCreated, TypeStatusChanged:
		return true
	default:
		return false
	}
}
