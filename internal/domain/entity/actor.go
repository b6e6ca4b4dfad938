package entity

// Role identifies the capability class of an authenticated actor.
type Role string

const (
	RoleEmployee    Role = "employee"
	RoleCoordinator Role = "coordinator"
	RoleHR          Role = "hr"
	RoleAccounts    Role = "accounts"
	RoleAdmin       Role = "admin"
)

var validRoles = map[Role]bool{
	RoleEmployee:    true,
	RoleCoordinator: true,
	RoleHR:          true,
	RoleAccounts:    true,
	RoleAdmin:       true,
}

// IsValid returns true if the role is one of the known roles.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Actor is the already-authenticated identity performing a workflow
// operation. Authentication itself happens upstream; the core only consumes
// the resolved id and role.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
