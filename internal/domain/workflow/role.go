package workflow

// Role is the capacity in which an actor participates in the workflow
type Role string

const (
	RoleCreator  Role = "CREATOR"
	RoleDeskHead Role = "DESK_HEAD"
	RoleLEO      Role = "LEO"
)

var validRoles = map[Role]bool{
	RoleCreator:  true,
	RoleDeskHead: true,
	RoleLEO:      true,
}

// IsValid returns true if the role is a known workflow role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Roles returns every known workflow role
func Roles() []Role {
	return []Role{RoleCreator, RoleDeskHead, RoleLEO}
}
