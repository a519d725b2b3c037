package enums

import "fmt"

// UserRole represents a tenant-level permissions role.
type UserRole string

const (
	UserRoleAdmin          UserRole = "admin"
	UserRoleCashier        UserRole = "cashier"
	UserRoleSalesAttendant UserRole = "sales_attendant"
	UserRoleStaff          UserRole = "staff"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleCashier,
	UserRoleSalesAttendant,
	UserRoleStaff,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
