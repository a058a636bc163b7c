package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Approves leave, sessions and payments
	RoleEmployee Role = "employee" // Regular employee
)

// Principal is the authenticated caller as read from the access token.
type Principal struct {
	UserID     string
	EmployeeID *string
	Role       Role
}

func (p Principal) Can(permission Permission) bool {
	return HasPermission(p.Role, permission)
}
