package models

// Role controls what a caller may do with reservations.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleStaff      Role = "STAFF"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the caller has admin rights.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSuperAdmin
}
