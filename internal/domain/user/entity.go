package user

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - full access
	RoleManager  Role = "manager"  // Can approve leave and view team attendance
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Identity is the caller resolved from access token claims. EmployeeID is
// empty for accounts without an employee record.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanApprove checks if the caller may act on approval queues
func (i Identity) CanApprove() bool {
	return i.Role == RoleAdmin || i.Role == RoleManager
}
